package model

import "time"

// Recommendation is one row of an analyst recommendation table.
type Recommendation struct {
	Symbol    string    `json:"symbol" bson:"symbol"`
	Date      time.Time `json:"date" bson:"date"`
	Firm      string    `json:"firm" bson:"firm"`
	Action    string    `json:"action" bson:"action"`
	FromGrade string    `json:"from_grade,omitempty" bson:"from_grade,omitempty"`
	ToGrade   string    `json:"to_grade" bson:"to_grade"`
}

// RatingSnapshot is the stored result of one ratings scrape.
type RatingSnapshot struct {
	Symbol          string           `json:"symbol" bson:"symbol"`
	ScrapedAt       time.Time        `json:"scraped_at" bson:"scraped_at"`
	Recommendations []Recommendation `json:"recommendations" bson:"recommendations"`
}

// ScrapeJob asks the worker pool to refresh ratings for a symbol.
type ScrapeJob struct {
	ID     string `json:"id" bson:"_id"`
	Symbol string `json:"symbol" bson:"symbol"`
}
