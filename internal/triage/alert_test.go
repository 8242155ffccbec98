package triage

import (
	"strings"
	"testing"
)

func TestEvaluate_Precedence(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator(NewConfig("vip@example.com"))

	tests := []struct {
		name     string
		email    *Email
		category Category
		want     AlertKind
		wantOK   bool
	}{
		{
			"urgent category wins over everything",
			&Email{From: "vip@example.com", Subject: "deadline expires", Body: "password click here"},
			CategoryUrgent,
			AlertUrgent, true,
		},
		{
			"vip sender",
			&Email{From: "VIP@example.com", Subject: "lunch?", Body: "free today?"},
			CategoryRegular,
			AlertVIP, true,
		},
		{
			"time sensitive",
			&Email{From: "sales@shop.com", Subject: "Offer expires", Body: "Last chance to renew."},
			CategoryRegular,
			AlertTimeSensitive, true,
		},
		{
			"security threat",
			&Email{From: "attacker@evil.com", Subject: "Account notice", Body: "Your password was compromised, click here to fix it."},
			CategoryRegular,
			AlertSecurity, true,
		},
		{
			"no alert",
			&Email{From: "friend@example.com", Subject: "Weekend plans", Body: "Fancy a hike?"},
			CategoryRegular,
			"", false,
		},
	}
	for _, tt := range tests {
		kind, ok := ev.Evaluate(tt.email, tt.category)
		if ok != tt.wantOK || kind != tt.want {
			t.Errorf("%s: Evaluate() = (%q, %v), want (%q, %v)", tt.name, kind, ok, tt.want, tt.wantOK)
		}
	}
}

func TestEvaluate_NilEmail(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator(NewConfig(""))
	if kind, ok := ev.Evaluate(nil, CategoryUrgent); ok || kind != "" {
		t.Errorf("Evaluate(nil) = (%q, %v), want no alert", kind, ok)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator(NewConfig(""))
	e := &Email{From: "sales@shop.com", Subject: "Final notice", Body: "Subscription closing soon."}

	k1, ok1 := ev.Evaluate(e, CategoryRegular)
	k2, ok2 := ev.Evaluate(e, CategoryRegular)
	if k1 != k2 || ok1 != ok2 {
		t.Errorf("Evaluate() not stable: (%q, %v) then (%q, %v)", k1, ok1, k2, ok2)
	}
}

func TestIsSecurityThreat(t *testing.T) {
	t.Parallel()

	ev := NewEvaluator(NewConfig(""))

	tests := []struct {
		name  string
		email *Email
		want  bool
	}{
		{
			"keyword plus call to action",
			&Email{From: "a@b.com", Body: "Unusual password activity, click here to review."},
			true,
		},
		{
			"keyword plus link flood",
			&Email{From: "a@b.com", Body: "Suspicious activity: http://a.io http://b.io http://c.io http://d.io"},
			true,
		},
		{
			"keyword plus no-reply sender",
			&Email{From: "no-reply@bank-alerts.com", Body: "Please verify your account today."},
			true,
		},
		{
			"keyword without delivery signal",
			&Email{From: "alice@company.com", Subject: "Password rotation policy", Body: "We rotate passwords quarterly."},
			false,
		},
		{
			"delivery signal without keyword",
			&Email{From: "no-reply@shop.com", Body: "Your parcel shipped, click here to track it."},
			false,
		},
	}
	for _, tt := range tests {
		if got := ev.isSecurityThreat(tt.email); got != tt.want {
			t.Errorf("%s: isSecurityThreat() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRenderAlert(t *testing.T) {
	t.Parallel()

	e := &Email{From: "boss@company.com", Subject: "Project deadline moved up"}

	tests := []struct {
		kind AlertKind
		want string
	}{
		{AlertUrgent, "URGENT email from"},
		{AlertVIP, "VIP contact"},
		{AlertTimeSensitive, "Time-sensitive email from"},
		{AlertSecurity, "SECURITY ALERT"},
		{AlertKind("OTHER"), "Alert for email from"},
	}
	for _, tt := range tests {
		got := RenderAlert(e, tt.kind)
		if !strings.Contains(got, tt.want) {
			t.Errorf("RenderAlert(%q) = %q, want substring %q", tt.kind, got, tt.want)
		}
		if !strings.Contains(got, e.From) || !strings.Contains(got, e.Subject) {
			t.Errorf("RenderAlert(%q) = %q, want sender and subject included", tt.kind, got)
		}
	}
}
