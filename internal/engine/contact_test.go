package engine

import "testing"

func TestExtractContact(t *testing.T) {
	text := `Jane Doe
Senior Backend Engineer
jane.doe@example.com | +1 (555) 123-4567

Summary
...`

	info := ExtractContact(text)
	if info.Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", info.Name)
	}
	if info.Email != "jane.doe@example.com" {
		t.Errorf("email = %q", info.Email)
	}
	if info.Phone == "" {
		t.Error("phone not extracted")
	}
}

func TestExtractContactPartial(t *testing.T) {
	info := ExtractContact("contact me at someone@example.org for details")
	if info.Email != "someone@example.org" {
		t.Errorf("email = %q", info.Email)
	}
	if info.Phone != "" {
		t.Errorf("phone = %q, want empty", info.Phone)
	}
}

func TestExtractContactEmpty(t *testing.T) {
	info := ExtractContact("")
	if info.Name != "" || info.Email != "" || info.Phone != "" {
		t.Errorf("expected empty contact, got %+v", info)
	}
}

func TestExtractContactSkipsNoisyLines(t *testing.T) {
	text := `123 Main Street Apt 4
Jane Doe
jane@example.com`

	info := ExtractContact(text)
	if info.Name != "Jane Doe" {
		t.Errorf("name = %q, want Jane Doe", info.Name)
	}
}
