package internal

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypeOrder      TransactionType = "Order"
	TypeRefund     TransactionType = "Refund"
	TypeCommission TransactionType = "Commission"
	TypeMarketing  TransactionType = "Marketing"
)

type ReconStatus string

const (
	StatusMatched            ReconStatus = "Matched"
	StatusMissingInWarehouse ReconStatus = "Missing_in_Warehouse"
	StatusMissingFromStmt    ReconStatus = "Missing_from_Statement"
	StatusAccrual            ReconStatus = "Accrual"
	StatusNonOrder           ReconStatus = "NonOrder"
)

type AmountFlag string

const (
	AmountMatched    AmountFlag = "Matched"
	AmountNotMatched AmountFlag = "Not Matched"
	AmountIgnore     AmountFlag = "Ignore"
)

// StatementWindow is the Monday-to-Sunday period a single statement covers.
type StatementWindow struct {
	Start time.Time
	End   time.Time
}

// StatementTransaction is one row of parsed statement data. Order and Refund
// rows carry a non-empty OrderID; Commission and Marketing aggregates never do.
type StatementTransaction struct {
	OrderID     string
	Date        time.Time
	OrderType   string
	Type        TransactionType
	Total       decimal.Decimal
	Refund      decimal.Decimal
	SourceFile  string
	Window      StatementWindow
	PaymentDate *time.Time
}

// DeductionLineItem is an intermediate parse result from the deductions
// segment of a statement. OutsideVATScope marks true customer/order refunds
// as opposed to generic commission or marketing deductions.
type DeductionLineItem struct {
	Description     string
	Amount          decimal.Decimal
	Reason          string
	OrderID         string
	OutsideVATScope bool
}

// HeaderSummary holds the aggregate figures printed in a statement header.
// Used for diagnostic validation only; any field may be absent.
type HeaderSummary struct {
	OrderCount  *int
	TotalSales  *decimal.Decimal
	WillReceive *decimal.Decimal
	PaymentDate *time.Time
}

// Statement is the full parse result for one PDF.
type Statement struct {
	SourceFile   string
	Window       StatementWindow
	PaymentDate  *time.Time
	Header       HeaderSummary
	Transactions []StatementTransaction
	Deductions   []DeductionLineItem
}
