package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quiz-drill/internal/domain"
	"quiz-drill/internal/quiz"
)

var (
	titleColor   = lipgloss.Color("33")
	mutedColor   = lipgloss.Color("242")
	cursorColor  = lipgloss.Color("212")
	correctColor = lipgloss.Color("42")
	wrongColor   = lipgloss.Color("196")
)

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.session.State() {
	case quiz.StateConfiguring:
		body = m.viewConfiguring()
	case quiz.StateInProgress:
		body = m.viewQuestion()
	case quiz.StateReviewing:
		body = m.viewReview()
	case quiz.StateCompleted:
		body = m.viewScore()
	}

	parts := []string{stylize("Quiz Drill", m.noColor, titleColor, true), body}
	if m.feedback != "" {
		parts = append(parts, stylize(m.feedback, m.noColor, wrongColor, false))
	}
	parts = append(parts, stylize(m.help(), m.noColor, mutedColor, false))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) viewConfiguring() string {
	size := m.session.Bank().Len()
	return fmt.Sprintf("%d questions available.\nHow many questions? %s", size, m.count.View())
}

func (m Model) progressLine() string {
	pos, total := m.session.Progress()
	ratio := 0.0
	if total > 0 {
		ratio = float64(pos) / float64(total)
	}
	return fmt.Sprintf("%s  %d/%d  score %d", m.bar.ViewAs(ratio), pos, total, m.session.Score())
}

func (m Model) viewQuestion() string {
	q, err := m.session.CurrentQuestion()
	if err != nil {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(m.progressLine())
	b.WriteString("\n\n")
	b.WriteString(questionHeading(q))
	b.WriteString("\n")
	if q.IsMultiple() {
		b.WriteString(stylize("(select every correct answer)", m.noColor, mutedColor, false))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, choice := range q.Choices {
		pointer := "  "
		if i == m.cursor {
			pointer = stylize("> ", m.noColor, cursorColor, true)
		}
		mark := "( )"
		if q.IsMultiple() {
			mark = "[ ]"
		}
		if slices.Contains(m.selected, i) {
			mark = "(*)"
			if q.IsMultiple() {
				mark = "[x]"
			}
		}
		fmt.Fprintf(&b, "%s%s %d. %s\n", pointer, mark, i+1, choice)
	}
	return b.String()
}

func questionHeading(q domain.Question) string {
	heading := q.Text
	if q.Kind == domain.KindImage && q.ImageRef != "" {
		heading += "\n[image: " + q.ImageRef + "]"
	}
	return heading
}

func (m Model) viewReview() string {
	review, err := m.session.Review()
	if err != nil {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(m.progressLine())
	b.WriteString("\n\n")
	b.WriteString(stylize("Incorrect.", m.noColor, wrongColor, true))
	b.WriteString("\n")
	b.WriteString(questionHeading(review.Question))
	b.WriteString("\n\n")
	for i, choice := range review.Question.Choices {
		line := fmt.Sprintf("   %d. %s", i+1, choice)
		switch {
		case slices.Contains(review.Correct, i):
			line = stylize(line+"  (correct)", m.noColor, correctColor, true)
		case slices.Contains(review.Selected, i):
			line = stylize(line+"  (your answer)", m.noColor, wrongColor, false)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewScore() string {
	score, err := m.session.FinalScore()
	if err != nil {
		return err.Error()
	}
	color := correctColor
	if score.Rating == quiz.RatingKeepStudying {
		color = wrongColor
	}
	return fmt.Sprintf("%s\n\nYou answered %d of %d correctly (%.1f%%).\n%s",
		m.bar.ViewAs(1),
		score.Correct, score.Total, score.Percent,
		stylize(score.Rating.Message(), m.noColor, color, true))
}

func (m Model) help() string {
	switch m.session.State() {
	case quiz.StateConfiguring:
		return "enter: start • esc: quit"
	case quiz.StateInProgress:
		return "↑/↓: move • space or 1-9: select • enter: submit • q: quit"
	case quiz.StateReviewing:
		return "enter: continue • q: quit"
	default:
		return "r: restart • q: quit"
	}
}
