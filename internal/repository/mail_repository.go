package repository

import (
	"context"
	"errors"

	"github.com/welldanyogia/mailstore/internal/models"
	"gorm.io/gorm"
)

// MailRepository defines the interface for mail record access.
// It is the only component that issues statements against the mail table.
type MailRepository interface {
	Create(ctx context.Context, subject, body string) (int64, error)
	Get(ctx context.Context, id int64) (*models.Mail, bool, error)
	GetAll(ctx context.Context) ([]models.Mail, error)
	Update(ctx context.Context, id int64, subject, body string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// mailRepository implements MailRepository using GORM
type mailRepository struct {
	db *gorm.DB
}

// NewMailRepository creates a new MailRepository instance.
// Every operation runs as a single statement without an explicit transaction.
func NewMailRepository(db *gorm.DB) MailRepository {
	return &mailRepository{db: db.Session(&gorm.Session{SkipDefaultTransaction: true})}
}

// Create inserts a new mail record and returns the identifier assigned by the database
func (r *mailRepository) Create(ctx context.Context, subject, body string) (int64, error) {
	mail := &models.Mail{Subject: subject, Body: body}
	if err := r.db.WithContext(ctx).Create(mail).Error; err != nil {
		return 0, storageError("create mail", err)
	}
	return mail.ID, nil
}

// Get retrieves a mail record by its ID.
// A missing record is reported through the boolean, not as an error.
func (r *mailRepository) Get(ctx context.Context, id int64) (*models.Mail, bool, error) {
	var mail models.Mail
	result := r.db.WithContext(ctx).Where("id = ?", id).Take(&mail)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, storageError("get mail", result.Error)
	}
	return &mail, true, nil
}

// GetAll retrieves every mail record ordered by ascending ID
func (r *mailRepository) GetAll(ctx context.Context) ([]models.Mail, error) {
	mails := make([]models.Mail, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&mails).Error; err != nil {
		return nil, storageError("list mail", err)
	}
	return mails, nil
}

// Update overwrites subject and body of an existing record.
// Returns false when no row with that ID exists; never inserts.
func (r *mailRepository) Update(ctx context.Context, id int64, subject, body string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Mail{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subject": subject,
		"body":    body,
	})
	if result.Error != nil {
		return false, storageError("update mail", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// Delete removes a mail record by its ID.
// Returns false when no row with that ID exists.
func (r *mailRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Mail{})
	if result.Error != nil {
		return false, storageError("delete mail", result.Error)
	}
	return result.RowsAffected == 1, nil
}
