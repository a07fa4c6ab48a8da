package users

import "time"

type MeResponse struct {
	User         UserDTO          `json:"user"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Usage        UsageDTO         `json:"usage"`
}

type UserDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscriptionDTO struct {
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	CurrentPeriodEnd *int64 `json:"current_period_end"`
}

type UsageDTO struct {
	ImagesThisWeek int `json:"images_this_week"`
	Limit          int `json:"limit"`
}
