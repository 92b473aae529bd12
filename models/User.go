package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Email    string `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Username string `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password string `json:"-" gorm:"column:hashed_password;not null"`
	IsActive *bool  `json:"is_active" gorm:"default:true"`

	Listings []Listing `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
