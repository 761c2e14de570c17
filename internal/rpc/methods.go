package rpc

import (
	"github.com/LeJamon/carbond/internal/rpc/rpc_handlers"
)

// registerAllMethods sets up the method registry. It is called by NewServer.
func (s *Server) registerAllMethods() {
	// Credit transactions
	s.registry.Register("add_issuer", &rpc_handlers.AddIssuerMethod{})
	s.registry.Register("add_validator", &rpc_handlers.AddValidatorMethod{})
	s.registry.Register("issue_credits", &rpc_handlers.IssueCreditsMethod{})
	s.registry.Register("transfer_credits", &rpc_handlers.TransferCreditsMethod{})
	s.registry.Register("retire_credits", &rpc_handlers.RetireCreditsMethod{})
	s.registry.Register("validate_credits", &rpc_handlers.ValidateCreditsMethod{})
	s.registry.Register("set_credit_price", &rpc_handlers.SetCreditPriceMethod{})

	// Raw transactions
	s.registry.Register("submit", &rpc_handlers.SubmitMethod{})
	s.registry.Register("submit_batch", &rpc_handlers.SubmitBatchMethod{})
	s.registry.Register("tx", &rpc_handlers.TxMethod{})
	s.registry.Register("account_tx", &rpc_handlers.AccountTxMethod{})

	// Credit queries
	s.registry.Register("get_credit_balance", &rpc_handlers.GetCreditBalanceMethod{})
	s.registry.Register("get_total_credits_retired", &rpc_handlers.GetTotalCreditsRetiredMethod{})
	s.registry.Register("get_issuer_data", &rpc_handlers.GetIssuerDataMethod{})
	s.registry.Register("get_credit_price", &rpc_handlers.GetCreditPriceMethod{})
	s.registry.Register("account_info", &rpc_handlers.AccountInfoMethod{})

	// Ledger
	s.registry.Register("ledger", &rpc_handlers.LedgerMethod{})
	s.registry.Register("ledger_current", &rpc_handlers.LedgerCurrentMethod{})
	s.registry.Register("ledger_closed", &rpc_handlers.LedgerClosedMethod{})

	// Standalone mode methods
	s.registry.Register("ledger_accept", &rpc_handlers.LedgerAcceptMethod{})

	// Server
	s.registry.Register("server_info", &rpc_handlers.ServerInfoMethod{Version: s.version})
	s.registry.Register("ping", &rpc_handlers.PingMethod{})
}
