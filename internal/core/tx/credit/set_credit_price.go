package credit

import (
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeSetCreditPrice, func() tx.Transaction {
		return &SetCreditPrice{BaseTx: *tx.NewBaseTx(tx.TypeSetCreditPrice, "")}
	})
}

// SetCreditPrice overwrites the price of the caller's issuance.
type SetCreditPrice struct {
	tx.BaseTx

	Price uint64 `json:"Price" codec:"price"`
}

// NewSetCreditPrice creates a new SetCreditPrice transaction
func NewSetCreditPrice(issuer principal.Principal, price uint64) *SetCreditPrice {
	return &SetCreditPrice{
		BaseTx: *tx.NewBaseTx(tx.TypeSetCreditPrice, issuer),
		Price:  price,
	}
}

// TxType returns the transaction type
func (s *SetCreditPrice) TxType() tx.Type {
	return tx.TypeSetCreditPrice
}

// Apply requires an existing issuance record owned by the caller.
func (s *SetCreditPrice) Apply(ctx *tx.ApplyContext) tx.Result {
	rec, err := ctx.ReadIssuance(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rec == nil {
		return tx.TecNOT_ISSUER
	}
	if rec.Price == s.Price {
		return tx.TesSUCCESS
	}
	rec.Price = s.Price
	if err := ctx.WriteIssuance(rec); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
