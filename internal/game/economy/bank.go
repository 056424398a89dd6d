package economy

import (
	"math"

	"github.com/google/uuid"
)

// Loan is one outstanding bank loan. The total owed is fixed at issuance:
// principal × (1 + rate). Settlement is a lump sum when the term runs out;
// PerTurnPayment is informational only.
type Loan struct {
	ID        string
	Borrower  string
	Principal int
	Rate      float64
	TermLeft  int
}

// Owed returns the lump sum due at the end of the term.
func (l *Loan) Owed() int {
	return int(math.Round(float64(l.Principal) * (1 + l.Rate)))
}

// PerTurnPayment returns the display-only amortized figure.
func (l *Loan) PerTurnPayment() int {
	if l.TermLeft <= 0 {
		return l.Owed()
	}
	return (l.Owed() + l.TermLeft - 1) / l.TermLeft
}

// BankConfig holds the loan policy.
type BankConfig struct {
	LoanCap            int
	LoanRate           float64
	LoanTermTurns      int
	MaxConcurrentLoans int
}

// DefaultBankConfig returns the standard loan policy.
func DefaultBankConfig() BankConfig {
	return BankConfig{
		LoanCap:            5000,
		LoanRate:           0.1,
		LoanTermTurns:      10,
		MaxConcurrentLoans: 2,
	}
}

// Settlement describes what happened to one loan during ProcessLoans.
type Settlement struct {
	Loan      *Loan
	Paid      int
	Defaulted bool
}

// Bank issues loans and settles them at end of term. Defaults are reported
// to the caller, which owns the bankruptcy cascade.
type Bank struct {
	wallet Wallet
	cfg    BankConfig
	loans  []*Loan
}

// NewBank wires the ledger to a wallet.
func NewBank(wallet Wallet, cfg BankConfig) *Bank {
	return &Bank{wallet: wallet, cfg: cfg}
}

// TakeLoan credits the player and records a loan with the fixed term and
// rate. Rejected when the amount is non-positive, exceeds the cap, or the
// player already holds the maximum number of concurrent loans.
func (b *Bank) TakeLoan(playerID string, amount int) (*Loan, bool) {
	if amount <= 0 || amount > b.cfg.LoanCap {
		return nil, false
	}
	if len(b.OutstandingFor(playerID)) >= b.cfg.MaxConcurrentLoans {
		return nil, false
	}
	loan := &Loan{
		ID:        uuid.New().String(),
		Borrower:  playerID,
		Principal: amount,
		Rate:      b.cfg.LoanRate,
		TermLeft:  b.cfg.LoanTermTurns,
	}
	b.loans = append(b.loans, loan)
	b.wallet.Add(playerID, amount)
	return loan, true
}

// ProcessLoans runs the per-turn bookkeeping for one player: each of their
// loans loses one term; a loan whose term reaches zero settles for the full
// owed amount when affordable, otherwise it defaults. Defaulted loans leave
// the ledger; the returned settlements tell the caller which defaults must
// cascade into bankruptcy.
func (b *Bank) ProcessLoans(playerID string) []Settlement {
	var settlements []Settlement
	remaining := b.loans[:0]
	for _, loan := range b.loans {
		if loan.Borrower != playerID {
			remaining = append(remaining, loan)
			continue
		}
		loan.TermLeft--
		if loan.TermLeft > 0 {
			remaining = append(remaining, loan)
			continue
		}
		owed := loan.Owed()
		if b.wallet.Cash(playerID) >= owed {
			b.wallet.Add(playerID, -owed)
			settlements = append(settlements, Settlement{Loan: loan, Paid: owed})
		} else {
			settlements = append(settlements, Settlement{Loan: loan, Defaulted: true})
		}
	}
	b.loans = remaining
	return settlements
}

// OutstandingFor returns the player's open loans.
func (b *Bank) OutstandingFor(playerID string) []*Loan {
	var open []*Loan
	for _, loan := range b.loans {
		if loan.Borrower == playerID {
			open = append(open, loan)
		}
	}
	return open
}

// Outstanding returns every open loan.
func (b *Bank) Outstanding() []*Loan {
	return append([]*Loan(nil), b.loans...)
}

// ReleaseBorrower drops all of a player's loans without settlement. Part of
// the bankruptcy cascade: a bankrupt player's debts die with the estate.
func (b *Bank) ReleaseBorrower(playerID string) {
	remaining := b.loans[:0]
	for _, loan := range b.loans {
		if loan.Borrower != playerID {
			remaining = append(remaining, loan)
		}
	}
	b.loans = remaining
}

// Restore replaces the ledger contents, used when reconstructing a game
// from a snapshot.
func (b *Bank) Restore(loans []*Loan) {
	b.loans = append([]*Loan(nil), loans...)
}
