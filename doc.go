// Package main provides the entry point for the Souls Console application.
// It initializes and runs a web server using the Fiber framework where members
// chat with AI souls, trainers run training sessions, counselors review flagged
// conversations and admins manage users, souls and settings. Access to each
// surface is gated by a static role and permission table. The application uses
// gorm for data persistence and supports SQLite, MySQL and PostgreSQL backends.
package main
