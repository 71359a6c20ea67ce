package model

import "time"

// Slide types.
const (
	SlideImage = "image"
	SlideVideo = "video"
)

type Slide struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
	// Length is the natural play length in seconds. Only meaningful for
	// video slides; zero for images.
	Length int `json:"length,omitempty"`
}

type Content struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
	Active bool    `json:"active"`
	// PermanentlyDisabled is terminal: once set, the record can never be
	// re-activated.
	PermanentlyDisabled bool      `json:"permanently_disabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
