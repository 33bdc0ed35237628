package models

import "time"

// Registration is a completed sign-up. Age keeps the validated decimal text
// the student typed so existing records stay readable.
type Registration struct {
	ID         string    `firestore:"-" db:"id"`
	TelegramID int64     `firestore:"tg_id" db:"tg_id"`
	Username   string    `firestore:"username" db:"username"`
	FullName   string    `firestore:"fullName" db:"full_name"`
	Age        string    `firestore:"age" db:"age"`
	Phone      string    `firestore:"phone" db:"phone"`
	Course     string    `firestore:"course" db:"course"`
	CourseID   string    `firestore:"course_id" db:"course_id"`
	CreatedAt  time.Time `firestore:"created_at,serverTimestamp" db:"created_at"`
}

// User is the record kept for everyone who pressed /start.
type User struct {
	TelegramID   int64      `firestore:"tg_id" db:"tg_id"`
	Username     string     `firestore:"username" db:"username"`
	FirstName    string     `firestore:"first_name" db:"first_name"`
	LastSeen     time.Time  `firestore:"last_seen" db:"last_seen"`
	Subscribed   bool       `firestore:"subscribed" db:"subscribed"`
	SubscribedAt *time.Time `firestore:"subscribed_at,omitempty" db:"subscribed_at"`
}

// Stats summarises the stored collections for the admin panel.
type Stats struct {
	Users         int
	Courses       int
	Registrations int
}
