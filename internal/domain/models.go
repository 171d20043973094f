package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reading is one timestamped value reported by a piece of equipment.
type Reading struct {
	ID          int64           `db:"id" json:"id"`
	EquipmentID string          `db:"equipment_id" json:"equipment_id"`
	Timestamp   time.Time       `db:"timestamp" json:"timestamp"`
	Value       decimal.Decimal `db:"value" json:"value"`
}

// Account is a self-registered user. Email always mirrors Username.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
}

// EquipmentAverage is the mean reading value of one equipment id over a window.
type EquipmentAverage struct {
	EquipmentID string          `db:"equipment_id" json:"equipment_id"`
	AvgValue    decimal.Decimal `db:"avg_value" json:"avg_value"`
}

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}
