package slack

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func sumTo(limit int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		total := 0
		for i := 1; i <= limit; i++ {
			total += i
		}
		return total, nil
	}
}

func calcRatio(ctx context.Context) (int, error) {
	return divide(1, 0), nil
}

func TestWrapReportsReturnValue(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	got, err := Wrap(n, sumTo(100))(context.Background())
	if err != nil || got != 5050 {
		t.Fatalf("wrapped call = %d, %v; want 5050, nil", got, err)
	}
	att := hook.single(t)
	if v, ok := fieldValue(att.Fields, "return"); !ok || v != "5050" {
		t.Fatalf("expected return field, got %+v", att.Fields)
	}
	if _, ok := fieldValue(att.Fields, "Duration"); !ok {
		t.Fatalf("expected Duration field, got %+v", att.Fields)
	}
	if !strings.HasPrefix(att.Footer, "notipy wrap #") {
		t.Fatalf("unexpected footer: %q", att.Footer)
	}
	if att.Color != "#00bb83" {
		t.Fatalf("color = %q, want success", att.Color)
	}
}

func TestWrapUsesFunctionNameAsTitle(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	_, _ = Wrap(n, calcRatio, CatchIf(isDivideByZero))(context.Background())
	att := hook.single(t)
	if att.Title != "Exception caught" {
		t.Fatalf("caught title = %q", att.Title)
	}
	if !strings.HasPrefix(att.AuthorName, "slack.calcRatio on ") {
		t.Fatalf("author = %q, want function name", att.AuthorName)
	}

	_, _ = Wrap(n, func(context.Context) (string, error) { return "ok", nil })(context.Background())
	if got := hook.payloads()[1].Attachments[0].Title; !strings.HasPrefix(got, "slack.TestWrapUsesFunctionNameAsTitle") {
		t.Fatalf("title = %q, want function name", got)
	}
}

func TestWrapPropagatesError(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	fn := Wrap(n, func(context.Context) (int, error) { return checkedDivide(1, 0) })
	got, err := fn(context.Background())
	if !errors.Is(err, errDivideByZero) || got != 0 {
		t.Fatalf("wrapped call = %d, %v", got, err)
	}
	att := hook.single(t)
	if att.Color != "#ff0a54" {
		t.Fatalf("color = %q, want error", att.Color)
	}
	if _, ok := fieldValue(att.Fields, "return"); ok {
		t.Fatalf("did not expect return field on failure: %+v", att.Fields)
	}
}

func TestWrapPropagatesPanic(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	recovered := func() (r any) {
		defer func() { r = recover() }()
		_, _ = Wrap(n, calcRatio)(context.Background())
		return nil
	}()
	if recovered == nil {
		t.Fatal("expected panic to propagate")
	}
	if got := len(hook.payloads()); got != 1 {
		t.Fatalf("expected 1 report before propagation, got %d", got)
	}
}

func TestWrapFunc(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	boom := errors.New("boom")
	err := WrapFunc(n, func(context.Context) error { return boom }, WithName("cleanup"), WithTitle("Cleanup"))(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("WrapFunc() error = %v", err)
	}
	att := hook.single(t)
	if att.Title != "Cleanup" || !strings.HasPrefix(att.AuthorName, "cleanup on ") {
		t.Fatalf("unexpected attachment: %+v", att)
	}
}

func TestWrapTypedMapResultBecomesFields(t *testing.T) {
	hook := newWebhook(t, http.StatusOK)
	n := newTestNotifier(t, hook.URL())

	stats := func(context.Context) (map[string]float64, error) {
		return map[string]float64{"mean": 1.5, "max": 3}, nil
	}
	if _, err := Wrap(n, stats)(context.Background()); err != nil {
		t.Fatalf("wrapped call error = %v", err)
	}
	att := hook.single(t)
	if v, ok := fieldValue(att.Fields, "mean"); !ok || v != "1.5" {
		t.Fatalf("expected mean field, got %+v", att.Fields)
	}
	if v, ok := fieldValue(att.Fields, "max"); !ok || v != "3" {
		t.Fatalf("expected max field, got %+v", att.Fields)
	}
	if _, ok := fieldValue(att.Fields, "return"); ok {
		t.Fatalf("map result must not collapse into a return field: %+v", att.Fields)
	}
}
