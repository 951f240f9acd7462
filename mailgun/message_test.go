package mailgun

import "testing"

func TestEmailAddress_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr EmailAddress
		want string
	}{
		{
			name: "address only",
			addr: NewEmailAddress("foo@bar.com"),
			want: "foo@bar.com",
		},
		{
			name: "name and address",
			addr: NewEmailAddressWithName("Tim", "woo@woah.com"),
			want: "Tim <woo@woah.com>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.addr.String(); got != tt.want {
				t.Errorf("String(): got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmailAddress_Address(t *testing.T) {
	t.Parallel()

	addr := NewEmailAddressWithName("Tim", "woo@woah.com")
	if addr.Address() != "woo@woah.com" {
		t.Errorf("Address(): got %q, want %q", addr.Address(), "woo@woah.com")
	}
}

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare address", input: "foo@bar.com", want: "foo@bar.com"},
		{name: "name and address", input: "Alice <alice@example.com>", want: "Alice <alice@example.com>"},
		{name: "invalid", input: "not an address", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			addr, err := ParseAddress(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if addr.String() != tt.want {
				t.Errorf("String(): got %q, want %q", addr.String(), tt.want)
			}
		})
	}
}

func TestBody_Accessors(t *testing.T) {
	t.Parallel()

	text := TextBody("hello")
	if got, ok := text.Text(); !ok || got != "hello" {
		t.Errorf("TextBody.Text(): got (%q, %v), want (%q, true)", got, ok, "hello")
	}
	if _, ok := text.HTML(); ok {
		t.Error("TextBody.HTML(): should not carry HTML content")
	}

	html := HTMLBody("<p>hi</p>")
	if got, ok := html.HTML(); !ok || got != "<p>hi</p>" {
		t.Errorf("HTMLBody.HTML(): got (%q, %v), want (%q, true)", got, ok, "<p>hi</p>")
	}
	if _, ok := html.Text(); ok {
		t.Error("HTMLBody.Text(): should not carry text content")
	}

	both := HTMLAndTextBody("<body/>", "hello")
	if got, ok := both.HTML(); !ok || got != "<body/>" {
		t.Errorf("HTMLAndTextBody.HTML(): got (%q, %v), want (%q, true)", got, ok, "<body/>")
	}
	if got, ok := both.Text(); !ok || got != "hello" {
		t.Errorf("HTMLAndTextBody.Text(): got (%q, %v), want (%q, true)", got, ok, "hello")
	}
}

func TestBody_ZeroValueIsEmptyText(t *testing.T) {
	t.Parallel()

	var body Body
	got, ok := body.Text()
	if !ok || got != "" {
		t.Errorf("zero Body.Text(): got (%q, %v), want (\"\", true)", got, ok)
	}
}
