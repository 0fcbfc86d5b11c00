package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"autolanka/internal/db"
	"autolanka/internal/entities"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(database *sql.DB) *UserRepository {
	return &UserRepository{DB: database}
}

// GetByEmail returns nil without error when no user exists.
func (r *UserRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(
		`SELECT user_id, first_name, last_name, email, password, mobile_id, nicno, status, isemailverified
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.MobileID, &u.NICNo, &u.Status, &u.IsEmailVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(userID string) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(
		`SELECT user_id, first_name, last_name, email, password, mobile_id, nicno, status, isemailverified
		 FROM users WHERE user_id = $1`,
		userID,
	).Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.MobileID, &u.NICNo, &u.Status, &u.IsEmailVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}
	return &u, nil
}

// GetMobile returns the mobile row for a number, nil when unknown.
func (r *UserRepository) GetMobile(mobileNo string) (*db.MobileNumber, error) {
	var m db.MobileNumber
	err := r.DB.QueryRow(
		`SELECT mobile_id, mobile_no, COALESCE(otp, ''), isotpverified FROM mobile_number WHERE mobile_no = $1`,
		mobileNo,
	).Scan(&m.MobileID, &m.MobileNo, &m.OTPHash, &m.IsOTPVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying mobile number: %w", err)
	}
	return &m, nil
}

func (r *UserRepository) InsertMobile(mobileNo, otpHash string, at time.Time) (int, error) {
	var mobileID int
	err := r.DB.QueryRow(
		`INSERT INTO mobile_number (mobile_no, otp, otp_datetime) VALUES ($1, $2, $3) RETURNING mobile_id`,
		mobileNo, otpHash, at,
	).Scan(&mobileID)
	if err != nil {
		return 0, fmt.Errorf("error inserting mobile number: %w", err)
	}
	return mobileID, nil
}

func (r *UserRepository) UpdateMobileOTP(mobileNo, otpHash string, at time.Time) (int, error) {
	var mobileID int
	err := r.DB.QueryRow(
		`UPDATE mobile_number SET otp = $1, otp_datetime = $2 WHERE mobile_no = $3 RETURNING mobile_id`,
		otpHash, at, mobileNo,
	).Scan(&mobileID)
	if err != nil {
		return 0, fmt.Errorf("error updating mobile otp: %w", err)
	}
	return mobileID, nil
}

func (r *UserRepository) MarkOTPVerified(mobileID int, mobileNo string) error {
	_, err := r.DB.Exec(
		`UPDATE mobile_number SET isotpverified = true WHERE mobile_id = $1 AND mobile_no = $2`,
		mobileID, mobileNo,
	)
	if err != nil {
		return fmt.Errorf("error marking otp verified: %w", err)
	}
	return nil
}

func (r *UserRepository) InsertAddress(line1 string, line2, line3 sql.NullString) (int, error) {
	var addressID int
	err := r.DB.QueryRow(
		`INSERT INTO addresses (address_line1, address_line2, address_line3) VALUES ($1, $2, $3) RETURNING address_id`,
		line1, line2, line3,
	).Scan(&addressID)
	if err != nil {
		return 0, fmt.Errorf("error inserting address: %w", err)
	}
	return addressID, nil
}

// CountUsers feeds generation of the next CUS<n> user id.
func (r *UserRepository) CountUsers() (int, error) {
	var count int
	if err := r.DB.QueryRow(`SELECT COUNT(user_id) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) InsertUser(u *db.User) error {
	_, err := r.DB.Exec(
		`INSERT INTO users (user_id, first_name, last_name, email, password, mobile_id, registered_date, user_type_id, nicno, address_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true)`,
		u.UserID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.MobileID,
		u.RegisteredDate, u.UserTypeID, u.NICNo, u.AddressID,
	)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

func (r *UserRepository) SetEmailVerified(email string) error {
	_, err := r.DB.Exec(`UPDATE users SET isemailverified = true WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("error setting email verified: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(email, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// GetProfile joins user, mobile and address rows for the profile screen.
func (r *UserRepository) GetProfile(userID string) (*entities.ProfileResponse, error) {
	var p entities.ProfileResponse
	var line2, line3 sql.NullString
	err := r.DB.QueryRow(
		`SELECT u.first_name, u.last_name, u.email, m.mobile_no, u.nicno,
		        COALESCE(a.address_line1, ''), a.address_line2, a.address_line3
		 FROM users u
		 JOIN mobile_number m ON u.mobile_id = m.mobile_id
		 LEFT JOIN addresses a ON u.address_id = a.address_id
		 WHERE u.user_id = $1`,
		userID,
	).Scan(&p.FirstName, &p.LastName, &p.Email, &p.Mobile, &p.NICNo, &p.AddressLine1, &line2, &line3)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying profile: %w", err)
	}
	p.AddressLine2 = line2.String
	p.AddressLine3 = line3.String
	return &p, nil
}
