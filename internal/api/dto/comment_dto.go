package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	BodyText string `json:"body_text"`
}

// UpdateCommentRequest carries a sparse comment edit.
type UpdateCommentRequest struct {
	BodyText *string `json:"body_text"`
}

// CommentResponse payload.
type CommentResponse struct {
	ID        int64         `json:"id"`
	BodyText  string        `json:"body_text"`
	CreatedAt time.Time     `json:"created_at"`
	CreatorID int64         `json:"creator_id"`
	TicketID  int64         `json:"ticket_id"`
	Creator   *UserResponse `json:"creator,omitempty"`
}

// CommentDetailResponse is the single-comment aggregate.
type CommentDetailResponse struct {
	Comment CommentResponse `json:"comment"`
	Ticket  TicketResponse  `json:"ticket"`
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		BodyText:  comment.BodyText,
		CreatedAt: comment.CreatedAt,
		CreatorID: comment.CreatorID,
		TicketID:  comment.TicketID,
	}
	if comment.Creator != nil {
		creator := NewUserResponse(comment.Creator)
		resp.Creator = &creator
	}
	return resp
}

// NewCommentResponses maps a slice of domain comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, NewCommentResponse(&comments[i]))
	}
	return result
}
