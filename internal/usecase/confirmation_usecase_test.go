package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tickethub/datatrans-service/internal/domain"
)

func seedOrderWithPayment(store *fakeStore) (*domain.Order, *domain.Payment) {
	order := &domain.Order{
		ID:         "order-1",
		Code:       "ABC-1",
		EventSlug:  "demo",
		Status:     domain.OrderStatusPending,
		Currency:   "CHF",
		TotalMinor: 1000,
		Secret:     "s3cret",
	}
	payment := &domain.Payment{
		ID:            "payment-1",
		OrderID:       order.ID,
		OrderCode:     order.Code,
		EventSlug:     order.EventSlug,
		Provider:      domain.ProviderDatatrans,
		Sequence:      1,
		AmountMinor:   1000,
		Currency:      "CHF",
		Status:        domain.PaymentStatusCreated,
		TransactionID: "tx123",
		CreatedAt:     time.Now(),
	}
	store.addOrder(order)
	store.addPayment(payment)
	return order, payment
}

func TestConfirmIfEligibleConfirmsEligibleStatuses(t *testing.T) {
	for _, status := range []string{"authorized", "settled", "transmitted"} {
		t.Run(status, func(t *testing.T) {
			store := newFakeStore()
			order, payment := seedOrderWithPayment(store)
			uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

			result, err := uc.ConfirmIfEligible(context.Background(), order, payment, status, order.Code, PathWebhook)
			if err != nil {
				t.Fatalf("ConfirmIfEligible: %v", err)
			}
			if result.Outcome != OutcomeConfirmed {
				t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeConfirmed)
			}
			if got := store.paymentStatus(payment.ID); got != domain.PaymentStatusConfirmed {
				t.Errorf("payment status = %s, want CONFIRMED", got)
			}
			if got := store.orderStatus(order.ID); got != domain.OrderStatusPaid {
				t.Errorf("order status = %s, want PAID", got)
			}
		})
	}
}

func TestConfirmIfEligibleIsIdempotent(t *testing.T) {
	store := newFakeStore()
	order, payment := seedOrderWithPayment(store)
	uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

	for i := 0; i < 5; i++ {
		result, err := uc.ConfirmIfEligible(context.Background(), order, payment, "settled", order.Code, PathWebhook)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		want := OutcomeConfirmed
		if i > 0 {
			want = OutcomeAlreadyConfirmed
		}
		if result.Outcome != want {
			t.Errorf("call %d: outcome = %s, want %s", i, result.Outcome, want)
		}
	}

	if got := store.confirmEffectCount(); got != 1 {
		t.Errorf("confirmation side-effects = %d, want 1", got)
	}
}

func TestConfirmIfEligibleUnexpectedStatus(t *testing.T) {
	for _, status := range []string{"initialized", "canceled", "failed", "refunded", ""} {
		t.Run(status, func(t *testing.T) {
			store := newFakeStore()
			order, payment := seedOrderWithPayment(store)
			uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

			result, err := uc.ConfirmIfEligible(context.Background(), order, payment, status, order.Code, PathRedirect)
			if err != nil {
				t.Fatalf("ConfirmIfEligible: %v", err)
			}
			if result.Outcome != OutcomeUnexpectedStatus {
				t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeUnexpectedStatus)
			}
			if result.GatewayStatus != status {
				t.Errorf("gateway status = %q, want %q", result.GatewayStatus, status)
			}
			if got := store.paymentStatus(payment.ID); got != domain.PaymentStatusCreated {
				t.Errorf("payment status = %s, want CREATED (no mutation)", got)
			}
		})
	}
}

func TestConfirmIfEligibleRefnoMismatch(t *testing.T) {
	store := newFakeStore()
	order, payment := seedOrderWithPayment(store)
	uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

	_, err := uc.ConfirmIfEligible(context.Background(), order, payment, "settled", "WRONG", PathWebhook)
	if !errors.Is(err, domain.ErrRefnoMismatch) {
		t.Fatalf("err = %v, want ErrRefnoMismatch", err)
	}
	if got := store.paymentStatus(payment.ID); got != domain.PaymentStatusCreated {
		t.Errorf("payment status = %s, want CREATED (no mutation)", got)
	}
	if got := store.confirmEffectCount(); got != 0 {
		t.Errorf("confirmation side-effects = %d, want 0", got)
	}
}

func TestConfirmIfEligibleAcceptsPaymentFullID(t *testing.T) {
	store := newFakeStore()
	order, payment := seedOrderWithPayment(store)
	uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

	result, err := uc.ConfirmIfEligible(context.Background(), order, payment, "settled", payment.FullID(), PathWebhook)
	if err != nil {
		t.Fatalf("ConfirmIfEligible: %v", err)
	}
	if result.Outcome != OutcomeConfirmed {
		t.Errorf("outcome = %s, want %s", result.Outcome, OutcomeConfirmed)
	}
}

func TestConfirmIfEligibleConcurrent(t *testing.T) {
	store := newFakeStore()
	order, payment := seedOrderWithPayment(store)
	uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan ConfirmationResult, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.ConfirmIfEligible(context.Background(), order, payment, "settled", order.Code, PathWebhook)
			if err != nil {
				errs <- err
				return
			}
			results <- result
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent caller failed: %v", err)
	}

	var confirmed int
	for result := range results {
		switch result.Outcome {
		case OutcomeConfirmed:
			confirmed++
		case OutcomeAlreadyConfirmed:
		default:
			t.Errorf("unexpected outcome %s", result.Outcome)
		}
	}
	if confirmed != 1 {
		t.Errorf("confirmed outcomes = %d, want exactly 1", confirmed)
	}
	if got := store.confirmEffectCount(); got != 1 {
		t.Errorf("confirmation side-effects = %d, want exactly 1", got)
	}
}

func TestFindPaymentByTransactionIDPicksMostRecent(t *testing.T) {
	store := newFakeStore()
	order, payment := seedOrderWithPayment(store)

	// An older abandoned attempt for the same order and transaction id.
	stale := *payment
	stale.ID = "payment-0"
	stale.Sequence = 0
	stale.CreatedAt = payment.CreatedAt.Add(-time.Hour)
	store.addPayment(&stale)

	uc := NewDefaultConfirmationUsecase(store, &fakePublisher{}, nil)

	found, err := uc.FindPaymentByTransactionID(context.Background(), order.EventSlug, "tx123")
	if err != nil {
		t.Fatalf("FindPaymentByTransactionID: %v", err)
	}
	if found.ID != payment.ID {
		t.Errorf("found payment %s, want most recent %s", found.ID, payment.ID)
	}

	if _, err := uc.FindPaymentByTransactionID(context.Background(), order.EventSlug, "tx999"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("unknown transaction err = %v, want ErrPaymentNotFound", err)
	}
	if _, err := uc.FindPaymentByTransactionID(context.Background(), "other-event", "tx123"); !errors.Is(err, domain.ErrPaymentNotFound) {
		t.Errorf("wrong event err = %v, want ErrPaymentNotFound", err)
	}
}
