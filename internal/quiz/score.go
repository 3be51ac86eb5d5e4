package quiz

import "math"

type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingVeryGood     Rating = "very_good"
	RatingGood         Rating = "good"
	RatingKeepStudying Rating = "keep_studying"
)

func (r Rating) Message() string {
	switch r {
	case RatingExcellent:
		return "Excellent!"
	case RatingVeryGood:
		return "Very good!"
	case RatingGood:
		return "Well done!"
	default:
		return "Keep studying!"
	}
}

// Score is the result of a completed run.
type Score struct {
	Correct int     `json:"correct"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Rating  Rating  `json:"rating"`
}

// NewScore computes the percentage rounded to one decimal and the rating
// tier for that rounded value.
func NewScore(correct, total int) Score {
	var percent float64
	if total > 0 {
		percent = math.Round(float64(correct)*1000/float64(total)) / 10
	}
	return Score{
		Correct: correct,
		Total:   total,
		Percent: percent,
		Rating:  RateScore(percent),
	}
}

func RateScore(percent float64) Rating {
	switch {
	case percent >= 90:
		return RatingExcellent
	case percent >= 75:
		return RatingVeryGood
	case percent >= 60:
		return RatingGood
	default:
		return RatingKeepStudying
	}
}
