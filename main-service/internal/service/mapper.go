// Package service holds the mapping from write models to API views shared by
// the command and query services.
package service

import (
	"github.com/explorewithme/ewm/shared/models"
	"github.com/explorewithme/ewm/shared/utils"
)

func ToCategoryDto(c *models.Category) models.CategoryDto {
	return models.CategoryDto{ID: c.ID, Name: c.Name}
}

func ToUserDto(u *models.User) models.UserDto {
	return models.UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUserDtos(users []models.User) []models.UserDto {
	out := make([]models.UserDto, len(users))
	for i := range users {
		out[i] = ToUserDto(&users[i])
	}
	return out
}

func ToRequestDto(r *models.ParticipationRequest) models.ParticipationRequestDto {
	return models.ParticipationRequestDto{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Created:   utils.FormatDateTime(r.Created),
		Status:    r.Status,
	}
}

func ToRequestDtos(reqs []models.ParticipationRequest) []models.ParticipationRequestDto {
	out := make([]models.ParticipationRequestDto, len(reqs))
	for i := range reqs {
		out[i] = ToRequestDto(&reqs[i])
	}
	return out
}

func ToCommentDto(c *models.Comment) models.CommentDto {
	return models.CommentDto{
		ID:         c.ID,
		Text:       c.Text,
		EventID:    c.EventID,
		AuthorName: c.AuthorName,
		Created:    utils.FormatDateTime(c.Created),
		Updated:    utils.FormatDateTimePtr(c.Updated),
	}
}

func ToCommentDtos(comments []models.Comment) []models.CommentDto {
	out := make([]models.CommentDto, len(comments))
	for i := range comments {
		out[i] = ToCommentDto(&comments[i])
	}
	return out
}
