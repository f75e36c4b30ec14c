package models

import "time"

// Device names are not unique; lookups by name take the lowest id.
type Device struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;not null;index"`

	Readings []Reading `gorm:"foreignKey:DeviceID;references:ID"`
}

type Reading struct {
	ID          uint      `gorm:"primaryKey"`
	DeviceID    uint      `gorm:"not null;index"`
	Temperature float64   `gorm:"not null"`
	Humidity    float64   `gorm:"not null"`
	Timestamp   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
