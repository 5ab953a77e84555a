package valueobjects

// AnsweredLevel is a learner's self-assessed understanding of a question.
// 0 means no understanding, 1 means full understanding. Values are always
// clamped into [0,1] at construction, never rejected.
type AnsweredLevel float64

// NewAnsweredLevel clamps the given value into [0,1]
func NewAnsweredLevel(v float64) AnsweredLevel {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return AnsweredLevel(v)
}

// Float64 returns the raw level value
func (l AnsweredLevel) Float64() float64 {
	return float64(l)
}
