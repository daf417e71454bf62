package models

import "time"

type Course struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	CourseID    *int64    `json:"courseId,omitempty"`
}

type Assignment struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueAt       time.Time `json:"dueAt"`
	CourseID    int64     `json:"courseId"`
}

type CreateCourseRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	CourseID    *int64 `json:"courseId"`
}

type CreateAssignmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueAt       string `json:"dueAt"`
	CourseID    int64  `json:"courseId"`
}
