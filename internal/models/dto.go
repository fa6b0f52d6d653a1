package models

// The API speaks camelCase while the stores persist snake_case. All of the
// field renaming (correctAnswer <-> correct_answer, timeLimit <-> time_limit,
// passingScore <-> passing_score) happens here and nowhere else.

type SubjectDTO struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Enabled     bool     `json:"enabled"`
	Chapters    []string `json:"chapters,omitempty"`
}

type VideoDTO struct {
	ID          string `json:"id,omitempty"`
	SubjectID   string `json:"subjectId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Topic       string `json:"topic"`
	Order       int    `json:"order"`
	Duration    string `json:"duration"`
}

type QuizDTO struct {
	ID           string        `json:"id,omitempty"`
	SubjectID    string        `json:"subjectId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Type         string        `json:"type"`
	TimeLimit    int           `json:"timeLimit"`
	PassingScore int           `json:"passingScore"`
	Questions    []QuestionDTO `json:"questions"`
}

type QuestionDTO struct {
	ID            string   `json:"id,omitempty"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Points        int      `json:"points"`
}

func (s Subject) ToDTO() SubjectDTO {
	return SubjectDTO{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Color:       s.Color,
		Enabled:     s.Enabled,
		Chapters:    s.Chapters,
	}
}

func (d SubjectDTO) ToModel() Subject {
	return Subject{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Color:       d.Color,
		Enabled:     d.Enabled,
		Chapters:    d.Chapters,
	}
}

func (v Video) ToDTO() VideoDTO {
	return VideoDTO{
		ID:          v.ID,
		SubjectID:   v.SubjectID,
		Title:       v.Title,
		Description: v.Description,
		URL:         v.URL,
		Topic:       v.Topic,
		Order:       v.Order,
		Duration:    v.Duration,
	}
}

func (d VideoDTO) ToModel() Video {
	return Video{
		ID:          d.ID,
		SubjectID:   d.SubjectID,
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		Topic:       d.Topic,
		Order:       d.Order,
		Duration:    d.Duration,
	}
}

func (q Quiz) ToDTO() QuizDTO {
	questions := make([]QuestionDTO, len(q.Questions))
	for i, question := range q.Questions {
		questions[i] = QuestionDTO{
			ID:            question.ID,
			Text:          question.Text,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Points:        question.Points,
		}
	}
	return QuizDTO{
		ID:           q.ID,
		SubjectID:    q.SubjectID,
		Title:        q.Title,
		Description:  q.Description,
		Type:         q.Type,
		TimeLimit:    q.TimeLimit,
		PassingScore: q.PassingScore,
		Questions:    questions,
	}
}

func (d QuizDTO) ToModel() Quiz {
	questions := make([]Question, len(d.Questions))
	for i, question := range d.Questions {
		points := question.Points
		if points < 1 {
			points = 1
		}
		questions[i] = Question{
			ID:            question.ID,
			QuizID:        d.ID,
			Position:      i,
			Text:          question.Text,
			Options:       question.Options,
			CorrectAnswer: question.CorrectAnswer,
			Points:        points,
		}
	}
	return Quiz{
		ID:           d.ID,
		SubjectID:    d.SubjectID,
		Title:        d.Title,
		Description:  d.Description,
		Type:         d.Type,
		TimeLimit:    d.TimeLimit,
		PassingScore: d.PassingScore,
		Questions:    questions,
	}
}
