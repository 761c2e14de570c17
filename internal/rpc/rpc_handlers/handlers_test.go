package rpc_handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/core/tx/credit"
	"github.com/LeJamon/carbond/internal/core/tx/roles"
	"github.com/LeJamon/carbond/internal/crypto"
	"github.com/LeJamon/carbond/internal/rpc/rpc_handlers"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types/mocks"
)

type HandlersSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	ledger *mocks.MockLedgerService
	ctx    *rpc_types.RpcContext
	admin  principal.Principal
	alice  principal.Principal
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ledger = mocks.NewMockLedgerService(s.ctrl)
	s.ctx = &rpc_types.RpcContext{
		Context:    context.Background(),
		Role:       rpc_types.RoleGuest,
		ApiVersion: rpc_types.DefaultApiVersion,
		Services:   &rpc_types.ServiceContainer{Ledger: s.ledger},
	}
	s.admin = s.principal("admin")
	s.alice = s.principal("alice")
}

func (s *HandlersSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlersSuite) principal(seed string) principal.Principal {
	kp, err := crypto.KeyPairFromSeed([]byte(seed))
	s.Require().NoError(err)
	return principal.FromPublicKey(kp.PublicKey())
}

func (s *HandlersSuite) params(format string, args ...interface{}) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(format, args...))
}

func applied(seq uint32) *service.SubmitResult {
	return &service.SubmitResult{
		Result:      tx.TesSUCCESS,
		Applied:     true,
		LedgerIndex: seq,
		TxJSON:      []byte(`{"TransactionType":"X"}`),
		MetaJSON:    []byte(`{"TransactionResult":"tesSUCCESS"}`),
	}
}

// =============================================================================
// Credit transactions
// =============================================================================

func (s *HandlersSuite) TestAddIssuer() {
	s.Run("builds an admin transaction", func() {
		s.ledger.EXPECT().Submit(gomock.Any()).DoAndReturn(func(t tx.Transaction) (*service.SubmitResult, error) {
			add, ok := t.(*roles.AddIssuer)
			s.Require().True(ok)
			s.Equal(s.admin, add.Account)
			s.Equal(s.alice, add.Target)
			return applied(3), nil
		})

		result, rpcErr := (&rpc_handlers.AddIssuerMethod{}).Handle(s.ctx,
			s.params(`{"account":%q,"issuer":%q}`, s.admin, s.alice))
		s.Require().Nil(rpcErr)
		resp := result.(map[string]interface{})
		s.Equal("tesSUCCESS", resp["engine_result"])
		s.Equal(0, resp["engine_result_code"])
		s.Equal(true, resp["applied"])
		s.Equal(uint32(3), resp["ledger_index"])
	})

	s.Run("missing issuer", func() {
		_, rpcErr := (&rpc_handlers.AddIssuerMethod{}).Handle(s.ctx, s.params(`{"account":%q}`, s.admin))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcINVALID_PARAMS, rpcErr.Code)
		s.Contains(rpcErr.Message, "issuer")
	})

	s.Run("malformed account", func() {
		_, rpcErr := (&rpc_handlers.AddIssuerMethod{}).Handle(s.ctx, s.params(`{"account":"nope","issuer":%q}`, s.alice))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcACT_MALFORMED, rpcErr.Code)
	})
}

func (s *HandlersSuite) TestRejectedTransactionIsNotAnRpcError() {
	s.ledger.EXPECT().Submit(gomock.Any()).Return(&service.SubmitResult{
		Result:      tx.TecNOT_ISSUER,
		Applied:     false,
		LedgerIndex: 3,
	}, nil)

	result, rpcErr := (&rpc_handlers.IssueCreditsMethod{}).Handle(s.ctx,
		s.params(`{"account":%q,"amount":1000,"project_label":"Solar Project"}`, s.alice))
	s.Require().Nil(rpcErr)
	resp := result.(map[string]interface{})
	s.Equal("tecNOT_ISSUER", resp["engine_result"])
	s.Equal(int(tx.TecNOT_ISSUER), resp["engine_result_code"])
	s.Equal(false, resp["applied"])
	s.NotContains(resp, "meta")
}

func (s *HandlersSuite) TestIssueCredits() {
	s.Run("amount as string and optional price", func() {
		s.ledger.EXPECT().Submit(gomock.Any()).DoAndReturn(func(t tx.Transaction) (*service.SubmitResult, error) {
			issue := t.(*credit.IssueCredits)
			s.Equal(uint64(1000), issue.Amount)
			s.Equal("Solar Project", issue.ProjectLabel)
			s.Require().NotNil(issue.Price)
			s.Equal(uint64(2000), *issue.Price)
			return applied(3), nil
		})
		_, rpcErr := (&rpc_handlers.IssueCreditsMethod{}).Handle(s.ctx,
			s.params(`{"account":%q,"amount":"1000","project_label":"Solar Project","price":2000}`, s.alice))
		s.Nil(rpcErr)
	})

	s.Run("no price", func() {
		s.ledger.EXPECT().Submit(gomock.Any()).DoAndReturn(func(t tx.Transaction) (*service.SubmitResult, error) {
			s.Nil(t.(*credit.IssueCredits).Price)
			return applied(3), nil
		})
		_, rpcErr := (&rpc_handlers.IssueCreditsMethod{}).Handle(s.ctx,
			s.params(`{"account":%q,"amount":5,"project_label":"Wind"}`, s.alice))
		s.Nil(rpcErr)
	})

	s.Run("negative amount", func() {
		_, rpcErr := (&rpc_handlers.IssueCreditsMethod{}).Handle(s.ctx,
			s.params(`{"account":%q,"amount":-5,"project_label":"Wind"}`, s.alice))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcINVALID_PARAMS, rpcErr.Code)
	})

	s.Run("missing amount", func() {
		_, rpcErr := (&rpc_handlers.IssueCreditsMethod{}).Handle(s.ctx,
			s.params(`{"account":%q,"project_label":"Wind"}`, s.alice))
		s.Require().NotNil(rpcErr)
		s.Contains(rpcErr.Message, "amount")
	})
}

func (s *HandlersSuite) TestTransferCredits() {
	bob := s.principal("bob")
	s.ledger.EXPECT().Submit(gomock.Any()).DoAndReturn(func(t tx.Transaction) (*service.SubmitResult, error) {
		transfer := t.(*credit.TransferCredits)
		s.Equal(s.alice, transfer.Account)
		s.Equal(s.alice, transfer.Source())
		s.Equal(bob, transfer.To)
		s.Equal(uint64(250), transfer.Amount)
		return applied(4), nil
	})

	_, rpcErr := (&rpc_handlers.TransferCreditsMethod{}).Handle(s.ctx,
		s.params(`{"account":%q,"destination":%q,"amount":250}`, s.alice, bob))
	s.Nil(rpcErr)
}

func (s *HandlersSuite) TestSecretSignsWithNextSequence() {
	kp, err := crypto.KeyPairFromSeed([]byte("alice"))
	s.Require().NoError(err)

	s.ledger.EXPECT().GetAccountInfo(s.alice).Return(&service.AccountInfo{Principal: s.alice, Sequence: 7}, nil)
	s.ledger.EXPECT().Submit(gomock.Any()).DoAndReturn(func(t tx.Transaction) (*service.SubmitResult, error) {
		c := t.GetCommon()
		s.Equal(uint32(7), c.Sequence)
		s.NotEmpty(c.TxnSignature)
		s.NoError(tx.VerifySignature(t))
		return applied(3), nil
	})

	_, rpcErr := (&rpc_handlers.RetireCreditsMethod{}).Handle(s.ctx,
		s.params(`{"account":%q,"amount":10,"secret":%q}`, s.alice, kp.PrivateKeyHex()))
	s.Nil(rpcErr)
}

func (s *HandlersSuite) TestSecretForAnotherAccount() {
	kp, err := crypto.KeyPairFromSeed([]byte("mallory"))
	s.Require().NoError(err)

	_, rpcErr := (&rpc_handlers.RetireCreditsMethod{}).Handle(s.ctx,
		s.params(`{"account":%q,"amount":10,"secret":%q}`, s.alice, kp.PrivateKeyHex()))
	s.Require().NotNil(rpcErr)
	s.Equal(rpc_types.RpcBAD_SECRET, rpcErr.Code)
}

func (s *HandlersSuite) TestSubmitBatch() {
	s.Run("receipts per call", func() {
		s.ledger.EXPECT().SubmitBatch(gomock.Any()).DoAndReturn(func(txs []tx.Transaction) (*service.BatchResult, error) {
			s.Require().Len(txs, 2)
			s.Equal(tx.TypeAddIssuer, txs[0].TxType())
			s.Equal(tx.TypeIssueCredits, txs[1].TxType())
			return &service.BatchResult{
				Results: []*service.SubmitResult{
					applied(3),
					{Result: tx.TecNOT_ISSUER, LedgerIndex: 3},
				},
				AppliedCount: 1,
				FailedCount:  1,
				LedgerIndex:  3,
			}, nil
		})

		result, rpcErr := (&rpc_handlers.SubmitBatchMethod{}).Handle(s.ctx, s.params(`{"transactions":[
			{"TransactionType":"AddIssuer","Account":%q,"Target":%q},
			{"TransactionType":"IssueCredits","Account":%q,"Amount":100,"ProjectLabel":"P"}
		]}`, s.admin, s.alice, s.alice))
		s.Require().Nil(rpcErr)
		resp := result.(map[string]interface{})
		s.Equal(1, resp["applied_count"])
		s.Equal(1, resp["failed_count"])
		results := resp["results"].([]map[string]interface{})
		s.Equal("tesSUCCESS", results[0]["engine_result"])
		s.Equal("tecNOT_ISSUER", results[1]["engine_result"])
	})

	s.Run("unknown transaction type", func() {
		_, rpcErr := (&rpc_handlers.SubmitBatchMethod{}).Handle(s.ctx, s.params(`{"transactions":[
			{"TransactionType":"Payment","Account":%q}
		]}`, s.alice))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcTXN_MALFORMED, rpcErr.Code)
		s.Contains(rpcErr.Message, "transactions[0]")
	})

	s.Run("missing transactions", func() {
		_, rpcErr := (&rpc_handlers.SubmitBatchMethod{}).Handle(s.ctx, s.params(`{}`))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcINVALID_PARAMS, rpcErr.Code)
	})
}

// =============================================================================
// Queries
// =============================================================================

func (s *HandlersSuite) TestGetCreditBalance() {
	s.ledger.EXPECT().GetCreditBalance(s.alice).Return(uint64(750), nil)
	s.ledger.EXPECT().GetCurrentLedgerIndex().Return(uint32(5))

	result, rpcErr := (&rpc_handlers.GetCreditBalanceMethod{}).Handle(s.ctx, s.params(`{"account":%q}`, s.alice))
	s.Require().Nil(rpcErr)
	resp := result.(map[string]interface{})
	s.Equal(uint64(750), resp["balance"])
	s.Equal(uint32(5), resp["ledger_current_index"])
}

func (s *HandlersSuite) TestGetTotalCreditsRetired() {
	s.ledger.EXPECT().GetTotals().Return(entry.Totals{Issued: 1000, Retired: 300}, nil)
	s.ledger.EXPECT().GetCurrentLedgerIndex().Return(uint32(5))

	result, rpcErr := (&rpc_handlers.GetTotalCreditsRetiredMethod{}).Handle(s.ctx, nil)
	s.Require().Nil(rpcErr)
	resp := result.(map[string]interface{})
	s.Equal(uint64(300), resp["total_retired"])
	s.Equal(uint64(1000), resp["total_issued"])
}

func (s *HandlersSuite) TestGetIssuerData() {
	s.Run("no record is null", func() {
		s.ledger.EXPECT().GetIssuerData(s.alice).Return(nil, nil)
		result, rpcErr := (&rpc_handlers.GetIssuerDataMethod{}).Handle(s.ctx, s.params(`{"issuer":%q}`, s.alice))
		s.Require().Nil(rpcErr)
		s.Nil(result.(map[string]interface{})["issuer_data"])
	})

	s.Run("record", func() {
		data := &service.IssuerData{Issuer: s.alice, Amount: 1000, ProjectLabel: "Solar Project", Price: 2000}
		s.ledger.EXPECT().GetIssuerData(s.alice).Return(data, nil)
		result, rpcErr := (&rpc_handlers.GetIssuerDataMethod{}).Handle(s.ctx, s.params(`{"issuer":%q}`, s.alice))
		s.Require().Nil(rpcErr)
		s.Equal(data, result.(map[string]interface{})["issuer_data"])
	})
}

func (s *HandlersSuite) TestGetCreditPrice() {
	s.Run("found", func() {
		s.ledger.EXPECT().GetCreditPrice(s.alice).Return(uint64(2000), nil)
		result, rpcErr := (&rpc_handlers.GetCreditPriceMethod{}).Handle(s.ctx, s.params(`{"issuer":%q}`, s.alice))
		s.Require().Nil(rpcErr)
		s.Equal(uint64(2000), result.(map[string]interface{})["price"])
	})

	s.Run("not found maps to objectNotFound", func() {
		s.ledger.EXPECT().GetCreditPrice(s.alice).Return(uint64(0), service.ErrNotFound)
		_, rpcErr := (&rpc_handlers.GetCreditPriceMethod{}).Handle(s.ctx, s.params(`{"issuer":%q}`, s.alice))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcOBJECT_NOT_FOUND, rpcErr.Code)
		s.Equal("objectNotFound", rpcErr.ErrorString)
	})
}

// =============================================================================
// Ledger and history
// =============================================================================

func (s *HandlersSuite) TestLedgerAccept() {
	s.Run("standalone", func() {
		s.ledger.EXPECT().IsStandalone().Return(true)
		s.ledger.EXPECT().AcceptLedger().Return(uint32(4), nil)
		result, rpcErr := (&rpc_handlers.LedgerAcceptMethod{}).Handle(s.ctx, nil)
		s.Require().Nil(rpcErr)
		s.Equal(uint32(5), result.(map[string]interface{})["ledger_current_index"])
	})

	s.Run("not standalone", func() {
		s.ledger.EXPECT().IsStandalone().Return(false)
		_, rpcErr := (&rpc_handlers.LedgerAcceptMethod{}).Handle(s.ctx, nil)
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcNOT_STANDALONE, rpcErr.Code)
	})

	s.Run("persistence failure still advances", func() {
		s.ledger.EXPECT().IsStandalone().Return(true)
		s.ledger.EXPECT().AcceptLedger().Return(uint32(4), errors.New("disk full"))
		result, rpcErr := (&rpc_handlers.LedgerAcceptMethod{}).Handle(s.ctx, nil)
		s.Require().Nil(rpcErr)
		resp := result.(map[string]interface{})
		s.Equal(uint32(5), resp["ledger_current_index"])
		s.Equal("disk full", resp["warning"])
	})

	s.Run("admin only", func() {
		s.Equal(rpc_types.RoleAdmin, (&rpc_handlers.LedgerAcceptMethod{}).RequiredRole())
	})
}

func (s *HandlersSuite) TestTx() {
	s.Run("malformed hash", func() {
		_, rpcErr := (&rpc_handlers.TxMethod{}).Handle(s.ctx, s.params(`{"transaction":"xyz"}`))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcINVALID_HASH, rpcErr.Code)
	})

	s.Run("unknown hash", func() {
		s.ledger.EXPECT().GetTransaction(gomock.Any()).Return(nil, service.ErrTxNotFound)
		_, rpcErr := (&rpc_handlers.TxMethod{}).Handle(s.ctx,
			s.params(`{"transaction":"%064X"}`, 1))
		s.Require().NotNil(rpcErr)
		s.Equal(rpc_types.RpcTXN_NOT_FOUND, rpcErr.Code)
	})
}

func (s *HandlersSuite) TestAccountTxWithoutHistory() {
	s.ledger.EXPECT().GetAccountTransactions(s.alice, 200).Return(nil, service.ErrNoHistory)
	_, rpcErr := (&rpc_handlers.AccountTxMethod{}).Handle(s.ctx, s.params(`{"account":%q}`, s.alice))
	s.Require().NotNil(rpcErr)
	s.Equal(rpc_types.RpcNO_HISTORY, rpcErr.Code)
}

func (s *HandlersSuite) TestMissingServices() {
	_, rpcErr := (&rpc_handlers.LedgerCurrentMethod{}).Handle(&rpc_types.RpcContext{}, nil)
	s.Require().NotNil(rpcErr)
	s.Equal(rpc_types.RpcINTERNAL, rpcErr.Code)
}
