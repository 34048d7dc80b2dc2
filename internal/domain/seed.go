package domain

import "github.com/shopspring/decimal"

// Seed data used to initialize every new session. The functions return
// fresh copies so a session can never alias another session's slices.

// CurrentUser returns the fixed wallet owner.
func CurrentUser() User {
	return User{
		ID:        "u1",
		Name:      "Arjun Kumar",
		Mobile:    "+91 98765 43210",
		UPIID:     "arjun.k@ybl",
		AvatarURL: "https://picsum.photos/id/64/200/200",
		QRCodeURL: "/v1/profile/qr.png",
	}
}

// QuickContacts returns the home screen's quick-pay row.
func QuickContacts() []QuickContact {
	return []QuickContact{
		{Name: "Rahul", ImageURL: "https://picsum.photos/id/1005/100/100"},
		{Name: "Priya", ImageURL: "https://picsum.photos/id/1011/100/100"},
		{Name: "Mom", ImageURL: "https://picsum.photos/id/1027/100/100"},
		{Name: "Landlord", ImageURL: "https://picsum.photos/id/1012/100/100"},
	}
}

// RecentTransactions returns the initial history, newest first.
func RecentTransactions() []Transaction {
	return []Transaction{
		{ID: "t1", Amount: decimal.NewFromInt(450), PayeeName: "Fresh Mart", PayeeUPI: "freshmart@oksbi", Date: "Today, 10:30 AM", Status: TxStatusSuccess, Type: TxDebit},
		{ID: "t2", Amount: decimal.NewFromInt(1200), PayeeName: "Rohan Das", PayeeUPI: "rohan.d@ybl", Date: "Yesterday", Status: TxStatusSuccess, Type: TxDebit},
		{ID: "t3", Amount: decimal.NewFromInt(5000), PayeeName: "Salary", PayeeUPI: "techsol@hdfc", Date: "25 Oct", Status: TxStatusSuccess, Type: TxCredit},
		{ID: "t4", Amount: decimal.NewFromInt(80), PayeeName: "Chai Point", PayeeUPI: "chaipoint@icici", Date: "24 Oct", Status: TxStatusSuccess, Type: TxDebit},
	}
}
