package service

import (
	"quiz-drill/internal/domain"
	"quiz-drill/internal/dto"
	"quiz-drill/internal/quiz"
)

func toBankSummary(bank *domain.Bank) *dto.BankSummaryResponse {
	resp := &dto.BankSummaryResponse{
		Source:        bank.Source,
		QuestionCount: bank.Len(),
		Rejected:      make([]dto.RejectedLineResponse, 0, len(bank.Rejected)),
	}
	for _, le := range bank.Rejected {
		resp.Rejected = append(resp.Rejected, dto.RejectedLineResponse{
			Line:    le.Line,
			Content: le.Content,
			Reason:  le.Reason,
		})
	}
	return resp
}

func toSessionResponse(id string, session *quiz.Session) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:        id,
		State:     session.State().String(),
		Position:  session.Position(),
		Total:     session.Total(),
		Score:     session.Score(),
		Requested: session.Requested(),
	}
	if review, err := session.Review(); err == nil {
		resp.Review = &dto.ReviewResponse{
			QuestionID:   review.Question.ID,
			Selected:     review.Selected,
			Correct:      review.Correct,
			CorrectTexts: review.Question.CorrectTexts(),
		}
	}
	return resp
}

func toQuestionResponse(id string, session *quiz.Session, q domain.Question) *dto.QuestionResponse {
	return &dto.QuestionResponse{
		SessionID: id,
		ID:        q.ID,
		Text:      q.Text,
		Kind:      q.Kind.String(),
		ImageRef:  q.ImageRef,
		Choices:   q.Choices,
		Multiple:  q.IsMultiple(),
		Position:  session.Position(),
		Total:     session.Total(),
	}
}

// toTransitionResponse fills the correct texts from q when the transition graded an answer.
func toTransitionResponse(id string, t quiz.Transition, q domain.Question) *dto.TransitionResponse {
	resp := &dto.TransitionResponse{
		SessionID:      id,
		Correct:        t.Correct,
		State:          t.To.String(),
		Position:       t.Position,
		Score:          t.Score,
		Total:          t.Total,
		CorrectChoices: t.CorrectChoices,
	}
	for _, idx := range t.CorrectChoices {
		if idx >= 0 && idx < len(q.Choices) {
			resp.CorrectTexts = append(resp.CorrectTexts, q.Choices[idx])
		}
	}
	return resp
}

func toScoreResponse(id string, session *quiz.Session, score quiz.Score) *dto.ScoreResponse {
	byID := make(map[int]domain.Question, session.Total())
	for _, q := range session.Pool() {
		byID[q.ID] = q
	}

	resp := &dto.ScoreResponse{
		SessionID: id,
		Correct:   score.Correct,
		Total:     score.Total,
		Percent:   score.Percent,
		Rating:    string(score.Rating),
		Message:   score.Rating.Message(),
		Missed:    []dto.MissedQuestionResponse{},
	}
	for _, miss := range session.Missed() {
		q := byID[miss.QuestionID]
		resp.Missed = append(resp.Missed, dto.MissedQuestionResponse{
			QuestionID:   miss.QuestionID,
			Text:         q.Text,
			Selected:     miss.Selected,
			Correct:      miss.Correct,
			CorrectTexts: q.CorrectTexts(),
		})
	}
	return resp
}
