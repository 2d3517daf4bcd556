package ad

import "time"

// Ad is one advertisement campaign as stored in the ads table.
type Ad struct {
	ID            int64      `gorm:"column:id;primaryKey" json:"id"`
	Title         string     `gorm:"column:title;not null" json:"title"`
	Description   string     `gorm:"column:description;not null" json:"description"`
	ImageURL      *string    `gorm:"column:image_url" json:"image_url"`
	CTAURL        string     `gorm:"column:cta_url;not null" json:"cta_url"`
	Category      string     `gorm:"column:category;not null;index" json:"category"`
	TimeframeDays int        `gorm:"column:timeframe_days;not null;default:30" json:"timeframe_days"`
	IsActive      ActiveFlag `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt     Timestamp  `gorm:"column:created_at;index;autoCreateTime:false" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Ad) TableName() string { return "ads" }

// Active reports the normalized is_active flag.
func (a Ad) Active() bool {
	return a.IsActive.Bool()
}

// PublicAd is the projection served to integration consumers.
type PublicAd struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	ImageURL      *string   `json:"image_url"`
	CTAURL        string    `json:"cta_url"`
	Category      string    `json:"category"`
	TimeframeDays int       `json:"timeframe_days"`
	CreatedAt     Timestamp `json:"created_at"`
}
