package dto

import (
	"encoding/json"

	"github.com/BruksfildServices01/tour-booking/internal/models"
)

type TourDateDTO struct {
	ID        uint   `json:"id"`
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type GuideDTO struct {
	ID         uint     `json:"id"`
	UserID     uint     `json:"user_id"`
	Name       string   `json:"name,omitempty"`
	Languages  []string `json:"languages"`
	IsVerified bool     `json:"is_verified"`
	Rating     float64  `json:"rating"`
	Biography  string   `json:"biography,omitempty"`
}

type TourDTO struct {
	ID                  uint          `json:"id"`
	Title               string        `json:"title"`
	Description         string        `json:"description"`
	Location            string        `json:"location,omitempty"`
	Category            string        `json:"category,omitempty"`
	Price               float64       `json:"price"`
	Duration            int           `json:"duration"`
	MaxGroupSize        int           `json:"max_group_size"`
	AvailabilityStatus  string        `json:"availability_status"`
	IsTransportIncluded bool          `json:"is_transport_included"`
	IsFoodIncluded      bool          `json:"is_food_included"`
	CityID              uint          `json:"city_id"`
	CityName            string        `json:"city_name,omitempty"`
	Guide               *GuideDTO     `json:"guide,omitempty"`
	TourDates           []TourDateDTO `json:"tour_dates"`
}

func FromGuide(g models.Guide) GuideDTO {
	out := GuideDTO{
		ID:         g.ID,
		UserID:     g.UserID,
		Name:       g.User.Name,
		IsVerified: g.IsVerified,
		Rating:     g.Rating,
		Biography:  g.Biography,
		Languages:  []string{},
	}
	if len(g.Languages) > 0 {
		_ = json.Unmarshal(g.Languages, &out.Languages)
	}
	return out
}

func FromTour(t models.Tour) TourDTO {
	out := TourDTO{
		ID:                  t.ID,
		Title:               t.Title,
		Description:         t.Description,
		Location:            t.Location,
		Category:            t.Category,
		Price:               t.Price,
		Duration:            t.Duration,
		MaxGroupSize:        t.MaxGroupSize,
		AvailabilityStatus:  string(t.AvailabilityStatus),
		IsTransportIncluded: t.IsTransportIncluded,
		IsFoodIncluded:      t.IsFoodIncluded,
		CityID:              t.CityID,
		CityName:            t.City.Name,
		TourDates:           make([]TourDateDTO, 0, len(t.TourDates)),
	}
	if t.Guide.ID != 0 {
		g := FromGuide(t.Guide)
		out.Guide = &g
	}
	for _, d := range t.TourDates {
		out.TourDates = append(out.TourDates, TourDateDTO{
			ID:        d.ID,
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})
	}
	return out
}

func FromTours(ts []models.Tour) []TourDTO {
	out := make([]TourDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, FromTour(t))
	}
	return out
}
