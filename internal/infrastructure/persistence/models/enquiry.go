package models

import (
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
)

// EnquiryModel is the persistence model for contact-form enquiries
type EnquiryModel struct {
	AggregateModel
	Name      string         `gorm:"type:varchar(100);not null"`
	Email     string         `gorm:"type:varchar(200);not null;index"`
	Phone     string         `gorm:"type:varchar(30)"`
	Subject   string         `gorm:"type:varchar(200);not null"`
	Message   string         `gorm:"type:text;not null"`
	Status    enquiry.Status `gorm:"type:varchar(20);not null;index"`
	Source    string         `gorm:"type:varchar(50)"`
	IPAddress string         `gorm:"type:varchar(45)"`
	UserAgent string         `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EnquiryModel) TableName() string {
	return "enquiries"
}

// ToDomain converts the persistence model to a domain Enquiry
func (m *EnquiryModel) ToDomain() *enquiry.Enquiry {
	return &enquiry.Enquiry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Subject:           m.Subject,
		Message:           m.Message,
		Status:            m.Status,
		Source:            m.Source,
		IPAddress:         m.IPAddress,
		UserAgent:         m.UserAgent,
	}
}

// EnquiryModelFromDomain creates a persistence model from a domain Enquiry
func EnquiryModelFromDomain(e *enquiry.Enquiry) *EnquiryModel {
	m := &EnquiryModel{
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Subject:   e.Subject,
		Message:   e.Message,
		Status:    e.Status,
		Source:    e.Source,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
