package models

import "time"

// Category - раздел форума. ID - человекочитаемый slug ("general", "questions").
type Category struct {
	ID          string
	Name        string
	Description string
	// ThreadCount - вычисляемое поле (количество тем в разделе).
	ThreadCount int64
	CreatedAt   time.Time
}
