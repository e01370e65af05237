package repository

import "time"

// Account represents an account row.
type Account struct {
	ID          string
	Name        string
	Institution string
	AccountType string
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category represents a category row.
type Category struct {
	ID        string
	ParentID  *string
	Name      string
	SortOrder int
}

// Tag represents a tag row.
type Tag struct {
	ID   string
	Name string
}

// Transaction represents a transaction row. Currency is denormalized from
// the owning account on reads.
type Transaction struct {
	ID              string
	AccountID       string
	Date            time.Time
	AmountCents     int64
	Title           string
	Notes           *string
	Type            string // expense, income, transfer
	Pending         bool
	AttachmentCount int
	CategoryID      *string
	RecurringRuleID *string
	Currency        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Tags            []Tag
}

// RecurringRule represents a stored recurrence rule for a repeating
// transaction template.
type RecurringRule struct {
	ID          string
	AccountID   string
	CategoryID  *string
	Title       string
	AmountCents int64
	Type        string
	Frequency   string // daily, weekly, biweekly, monthly, yearly
	StartDate   time.Time
	EndMode     string // never, on_date, after_count
	EndDate     *time.Time
	EndCount    *int
	CreatedAt   time.Time
}
