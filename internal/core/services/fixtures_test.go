package services_test

import (
	"github.com/SscSPs/incentive_wallet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	hodID      = "hod-1"
	initID     = "init-1"
	empID      = "emp-1"
	intlEmpID  = "emp-2"
	adminID    = "admin-1"
	accountsID = "acc-1"
)

var (
	hodActor      = domain.Actor{UserID: hodID, Role: domain.RoleHOD}
	otherHODActor = domain.Actor{UserID: "hod-2", Role: domain.RoleHOD}
	initActor     = domain.Actor{UserID: initID, Role: domain.RoleInitiator}
	empActor      = domain.Actor{UserID: empID, Role: domain.RoleEmployee}
	intlEmpActor  = domain.Actor{UserID: intlEmpID, Role: domain.RoleEmployee}
	adminActor    = domain.Actor{UserID: adminID, Role: domain.RoleAdmin}
	accountsActor = domain.Actor{UserID: accountsID, Role: domain.RoleAccounts}
)

func strPtr(s string) *string { return &s }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testUsers() []domain.User {
	hod := hodID
	return []domain.User{
		{UserID: hodID, Name: "Hema HOD", Email: "hod@example.com", Role: domain.RoleHOD, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
		{UserID: "hod-2", Name: "Other HOD", Role: domain.RoleHOD, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
		{UserID: initID, Name: "Ira Initiator", Role: domain.RoleInitiator, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
		{UserID: empID, Name: "Esha Employee", Email: "emp@example.com", Role: domain.RoleEmployee, HODID: &hod,
			EmploymentType: domain.EmploymentFreelancer, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
		{UserID: intlEmpID, Name: "Ian International", Role: domain.RoleEmployee, HODID: &hod,
			EmploymentType: domain.EmploymentPermanent, Classification: domain.ClassInternational, Currency: domain.CurrencyUSD},
		{UserID: adminID, Name: "Ada Admin", Role: domain.RoleAdmin, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
		{UserID: accountsID, Name: "Arun Accounts", Email: "accounts@example.com", Role: domain.RoleAccounts, Classification: domain.ClassDomestic, Currency: domain.CurrencyINR},
	}
}
