package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankledger/internal/models"
	"bankledger/internal/money"
	"bankledger/internal/store"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(t.TempDir(), 2*time.Second, logger)
	require.NoError(t, err)
	return NewLedger(st, 250, logger)
}

func registerUser(t *testing.T, l *Ledger, username string) {
	t.Helper()
	err := l.Register(context.Background(), &models.User{
		Name:         "Test",
		Surname:      "User",
		Phone:        "555-0100",
		IDNumber:     "ID" + username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
	})
	require.NoError(t, err)
}

func balanceOf(t *testing.T, l *Ledger, username string) money.Cents {
	t.Helper()
	u, err := l.GetUser(context.Background(), username)
	require.NoError(t, err)
	return u.Balance
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var svcErr *ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, code, svcErr.Code)
	}
}

func TestRegister(t *testing.T) {
	t.Run("round trip with default account", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")

		u, err := l.GetUser(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, "ada", u.Username)
		assert.Equal(t, money.Cents(0), u.Balance)

		accounts, err := l.ListAccounts(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, models.DefaultAccountName, accounts[0].Name)
		assert.Equal(t, money.Cents(0), accounts[0].Balance)
	})

	t.Run("duplicate username", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")

		err := l.Register(context.Background(), &models.User{Username: "ada"})
		assertCode(t, err, ErrCodeDuplicateUser)
		assert.ErrorIs(t, err, models.ErrDuplicateUser)

		// first user's stored fields unchanged
		u, err := l.GetUser(context.Background(), "ada")
		require.NoError(t, err)
		assert.Equal(t, "Test", u.Name)
	})

	t.Run("username with path or delimiter characters", func(t *testing.T) {
		l := newTestLedger(t)
		for _, username := range []string{"../escaped", "a/b", "a,b"} {
			err := l.Register(context.Background(), &models.User{Username: username})
			assertCode(t, err, ErrCodeInvalidUsername)
			assert.ErrorIs(t, err, models.ErrInvalidUsername)
		}
	})
}

func TestDeposit(t *testing.T) {
	t.Run("balance and history entry", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")

		tx, err := l.Deposit(ctx, "ada", 1500)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeDeposit, tx.Type)
		assert.Equal(t, money.Cents(1500), tx.BalanceAfter)
		assert.Equal(t, money.Cents(1500), balanceOf(t, l, "ada"))

		history, err := l.History(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, money.Cents(1500), history[0].BalanceAfter)
	})

	t.Run("zero amount", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		_, err := l.Deposit(context.Background(), "ada", 0)
		assertCode(t, err, ErrCodeInvalidAmount)
	})

	t.Run("negative amount", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		_, err := l.Deposit(context.Background(), "ada", -100)
		assertCode(t, err, ErrCodeInvalidAmount)
	})

	t.Run("unknown user", func(t *testing.T) {
		l := newTestLedger(t)
		_, err := l.Deposit(context.Background(), "nobody", 100)
		assertCode(t, err, ErrCodeUserNotFound)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		tx, err := l.Withdraw(ctx, "ada", 400)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeWithdrawal, tx.Type)
		assert.Equal(t, money.Cents(600), tx.BalanceAfter)
		assert.Equal(t, money.Cents(600), balanceOf(t, l, "ada"))
	})

	t.Run("exactly the balance succeeds", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		_, err = l.Withdraw(ctx, "ada", 1000)
		require.NoError(t, err)
		assert.Equal(t, money.Cents(0), balanceOf(t, l, "ada"))
	})

	t.Run("insufficient funds leaves balance unchanged", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		_, err = l.Withdraw(ctx, "ada", 1001)
		assertCode(t, err, ErrCodeInsufficientFunds)
		assert.Equal(t, money.Cents(1000), balanceOf(t, l, "ada"))

		history, err := l.History(ctx, "ada")
		require.NoError(t, err)
		assert.Len(t, history, 1) // only the deposit
	})

	t.Run("invalid amount", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		_, err := l.Withdraw(context.Background(), "ada", 0)
		assertCode(t, err, ErrCodeInvalidAmount)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("conserves the sum of both balances", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		registerUser(t, l, "bob")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)
		_, err = l.Deposit(ctx, "bob", 200)
		require.NoError(t, err)

		require.NoError(t, l.Transfer(ctx, "ada", "bob", 300))

		assert.Equal(t, money.Cents(700), balanceOf(t, l, "ada"))
		assert.Equal(t, money.Cents(500), balanceOf(t, l, "bob"))
		assert.Equal(t, money.Cents(1200), balanceOf(t, l, "ada")+balanceOf(t, l, "bob"))
	})

	t.Run("writes both history entries", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		registerUser(t, l, "bob")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		require.NoError(t, l.Transfer(ctx, "ada", "bob", 300))

		adaHist, err := l.History(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, adaHist, 2)
		assert.Equal(t, models.TransactionTypeTransferOut, adaHist[1].Type)
		assert.Equal(t, "to bob", adaHist[1].Detail)
		assert.Equal(t, money.Cents(700), adaHist[1].BalanceAfter)

		bobHist, err := l.History(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, bobHist, 1)
		assert.Equal(t, models.TransactionTypeTransferIn, bobHist[0].Type)
		assert.Equal(t, "from ada", bobHist[0].Detail)
		assert.Equal(t, money.Cents(300), bobHist[0].BalanceAfter)
	})

	t.Run("recipient does not exist", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		err = l.Transfer(ctx, "ada", "nobody", 100)
		assertCode(t, err, ErrCodeRecipientNotFound)
		assert.Equal(t, money.Cents(1000), balanceOf(t, l, "ada"))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		registerUser(t, l, "bob")

		err := l.Transfer(ctx, "ada", "bob", 1)
		assertCode(t, err, ErrCodeInsufficientFunds)
	})

	t.Run("invalid amount", func(t *testing.T) {
		l := newTestLedger(t)
		err := l.Transfer(context.Background(), "ada", "bob", 0)
		assertCode(t, err, ErrCodeInvalidAmount)
	})

	t.Run("self transfer rejected", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		err := l.Transfer(context.Background(), "ada", "ada", 100)
		assertCode(t, err, ErrCodeSameAccount)
	})

	t.Run("no journal entry left behind", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		registerUser(t, l, "bob")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		require.NoError(t, l.Transfer(ctx, "ada", "bob", 300))

		pending, err := l.store.PendingTransfers()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestExternalTransfer(t *testing.T) {
	t.Run("deducts amount plus fee", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 10000)
		require.NoError(t, err)

		tx, err := l.ExternalTransfer(ctx, "ada", "DE89370400440532013000", 5000)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionTypeExternalTransfer, tx.Type)
		assert.Equal(t, money.Cents(5000), tx.Amount)
		assert.Equal(t, money.Cents(4750), tx.BalanceAfter)
		assert.Contains(t, tx.Detail, "fee 2.50")
		assert.Equal(t, money.Cents(4750), balanceOf(t, l, "ada"))
	})

	t.Run("succeeds iff amount plus fee is covered", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		_, err := l.Deposit(ctx, "ada", 1000)
		require.NoError(t, err)

		// 1000 - (751 + 250) would be negative
		_, err = l.ExternalTransfer(ctx, "ada", "ext", 751)
		assertCode(t, err, ErrCodeInsufficientFunds)
		assert.Equal(t, money.Cents(1000), balanceOf(t, l, "ada"))

		// 750 + 250 == 1000 exactly
		_, err = l.ExternalTransfer(ctx, "ada", "ext", 750)
		require.NoError(t, err)
		assert.Equal(t, money.Cents(0), balanceOf(t, l, "ada"))
	})

	t.Run("invalid amount", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		_, err := l.ExternalTransfer(context.Background(), "ada", "ext", -5)
		assertCode(t, err, ErrCodeInvalidAmount)
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		require.NoError(t, l.CreateAccount(ctx, "ada", "Vacation", 2500))

		accounts, err := l.ListAccounts(ctx, "ada")
		require.NoError(t, err)
		require.Len(t, accounts, 2)

		total, err := l.TotalBalance(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, money.Cents(2500), total)
	})

	t.Run("duplicate name", func(t *testing.T) {
		l := newTestLedger(t)
		ctx := context.Background()
		registerUser(t, l, "ada")
		require.NoError(t, l.CreateAccount(ctx, "ada", "Vacation", 2500))

		err := l.CreateAccount(ctx, "ada", "Vacation", 0)
		assertCode(t, err, ErrCodeDuplicateAccount)
	})

	t.Run("negative initial balance", func(t *testing.T) {
		l := newTestLedger(t)
		registerUser(t, l, "ada")
		err := l.CreateAccount(context.Background(), "ada", "Vacation", -1)
		assertCode(t, err, ErrCodeInvalidAmount)
	})
}

func TestConcurrentDeposits(t *testing.T) {
	// N concurrent deposits of the same amount must not lose updates: the
	// per-user lock serializes each read-validate-write cycle. Without it,
	// interleaved cycles would both read the old balance and one increment
	// would silently vanish.
	l := newTestLedger(t)
	ctx := context.Background()
	registerUser(t, l, "ada")

	const n = 20
	const amount = money.Cents(100)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Deposit(ctx, "ada", amount)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, n*amount, balanceOf(t, l, "ada"))

	history, err := l.History(ctx, "ada")
	require.NoError(t, err)
	assert.Len(t, history, n)
}

func TestConcurrentTransfersConserveTotal(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	registerUser(t, l, "ada")
	registerUser(t, l, "bob")
	_, err := l.Deposit(ctx, "ada", 10000)
	require.NoError(t, err)
	_, err = l.Deposit(ctx, "bob", 10000)
	require.NoError(t, err)

	// Opposite-direction transfers in parallel: the lexicographic lock
	// ordering keeps them deadlock-free and the totals conserved.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = l.Transfer(ctx, "ada", "bob", 100)
		}()
		go func() {
			defer wg.Done()
			_ = l.Transfer(ctx, "bob", "ada", 100)
		}()
	}
	wg.Wait()

	assert.Equal(t, money.Cents(20000), balanceOf(t, l, "ada")+balanceOf(t, l, "bob"))
}
