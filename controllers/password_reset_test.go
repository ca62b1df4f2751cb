package controllers

import (
	"net/http"
	"time"

	"research-achievement-api/models"
)

func (suite *ControllerTestSuite) TestPasswordResetFlow() {
	suite.createUser("张三", "zhang@example.edu.cn", "oldpassword1", models.RoleUser)

	var mailedTo string
	original := sendResetMail
	sendResetMail = func(to, subject, body string) error {
		mailedTo = to
		return nil
	}
	defer func() { sendResetMail = original }()

	w := suite.request(http.MethodPost, "/api/v1/password-reset/request", "", map[string]string{
		"email": "zhang@example.edu.cn",
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("zhang@example.edu.cn", mailedTo)

	var token models.PasswordResetToken
	suite.Require().NoError(suite.db.First(&token).Error)

	w = suite.request(http.MethodPost, "/api/v1/password-reset/confirm", "", map[string]string{
		"token":        token.Token,
		"new_password": "newpassword1",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/login", "", map[string]string{
		"email":    "zhang@example.edu.cn",
		"password": "newpassword1",
	})
	suite.Equal(http.StatusOK, w.Code)

	// A consumed token cannot be replayed
	w = suite.request(http.MethodPost, "/api/v1/password-reset/confirm", "", map[string]string{
		"token":        token.Token,
		"new_password": "anotherpass1",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ControllerTestSuite) TestPasswordResetUnknownEmailIsNeutral() {
	w := suite.request(http.MethodPost, "/api/v1/password-reset/request", "", map[string]string{
		"email": "nobody@example.edu.cn",
	})
	// Same 200 as the known-email case, so the endpoint leaks nothing
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ControllerTestSuite) TestPasswordResetExpiredToken() {
	user := suite.createUser("张三", "zhang@example.edu.cn", "oldpassword1", models.RoleUser)

	token := models.PasswordResetToken{
		UserID:    user.ID,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	suite.Require().NoError(suite.db.Create(&token).Error)

	w := suite.request(http.MethodPost, "/api/v1/password-reset/confirm", "", map[string]string{
		"token":        "expired-token",
		"new_password": "newpassword1",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}
