package services

import (
	"strings"

	"research-achievement-api/models"
)

// AuthorInput carries the raw flags captured at entry time. The stored role
// tag is derived from the flags across the whole author set, never submitted
// directly.
type AuthorInput struct {
	Name            string  `json:"name" binding:"required"`
	Order           int     `json:"order"`
	UserID          *string `json:"user_id,omitempty"`
	IsFirst         bool    `json:"is_first"`
	IsCorresponding bool    `json:"is_corresponding"`
}

// ClassifyAuthors derives each author's role tag. For journal and conference
// papers the flags are combined with how many authors share each flag; every
// other category tags all authors "other".
//
// Known asymmetry kept on purpose: an author with both flags set, when both
// counts exceed one, is tagged co_first and the corresponding distinction is
// dropped for that author.
func ClassifyAuthors(category models.Category, authors []AuthorInput) []models.AchievementAuthor {
	paper := models.IsPaperCategory(category)

	firstCount := 0
	correspondingCount := 0
	if paper {
		for _, a := range authors {
			if a.IsFirst {
				firstCount++
			}
			if a.IsCorresponding {
				correspondingCount++
			}
		}
	}

	out := make([]models.AchievementAuthor, 0, len(authors))
	for _, a := range authors {
		role := models.AuthorOther
		if paper {
			switch {
			case a.IsFirst && a.IsCorresponding:
				if firstCount > 1 {
					role = models.AuthorCoFirst
				} else if correspondingCount > 1 {
					role = models.AuthorCoCorresponding
				} else {
					// Sole first-and-corresponding author is plain "first"
					role = models.AuthorFirst
				}
			case a.IsFirst:
				if firstCount > 1 {
					role = models.AuthorCoFirst
				} else {
					role = models.AuthorFirst
				}
			case a.IsCorresponding:
				if correspondingCount > 1 {
					role = models.AuthorCoCorresponding
				} else {
					role = models.AuthorCorresponding
				}
			}
		}

		out = append(out, models.AchievementAuthor{
			UserID:      a.UserID,
			AuthorName:  strings.TrimSpace(a.Name),
			AuthorOrder: a.Order,
			AuthorType:  role,
		})
	}
	return out
}
