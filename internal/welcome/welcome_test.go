package welcome

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore()

	if _, ok := s.Get("g"); ok {
		t.Fatal("Get() on an unconfigured guild should report false")
	}

	st := s.Enable("g", "c1")
	if !st.Enabled || st.ChannelID != "c1" {
		t.Errorf("Enable() = %+v", st)
	}
	if st.Message != DefaultMessage || st.EmbedColor != DefaultColor || !st.MentionUser {
		t.Errorf("Enable() did not start from defaults: %+v", st)
	}

	if st := s.Disable("g"); st.Enabled || st.ChannelID != "c1" {
		t.Errorf("Disable() = %+v, want disabled with channel kept", st)
	}
}

func TestStoreUpdates(t *testing.T) {
	s := NewStore()
	s.SetMessage("g", "Hi {user}")
	s.SetMention("g", false)
	s.SetRules("g", true, "rules")
	s.SetAppearance("g", Appearance{Title: "Hello", Color: "#ff0000"})
	s.SetAppearance("g", Appearance{Footer: "bye"})

	st, ok := s.Get("g")
	if !ok {
		t.Fatal("Get() should report configured settings")
	}
	if st.Message != "Hi {user}" || st.MentionUser || !st.ShowRules || st.RulesChannelID != "rules" {
		t.Errorf("settings = %+v", st)
	}
	if st.EmbedTitle != "Hello" || st.EmbedColor != "#ff0000" || st.FooterText != "bye" {
		t.Errorf("appearance = %+v, want earlier fields kept", st)
	}

	st = s.SetRules("g", false, "")
	if st.ShowRules || st.RulesChannelID != "rules" {
		t.Errorf("SetRules(false) = %+v", st)
	}
}

func TestStoreConcurrent(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Enable("g", "c")
			} else {
				s.SetMention("g", true)
			}
			s.Get("g")
		}(i)
	}
	wg.Wait()
}

func TestFormat(t *testing.T) {
	p := Placeholders{UserID: "42", Username: "ana", Tag: "ana#0001", Server: "Gophers", MemberCount: 7}

	tests := []struct {
		template string
		want     string
	}{
		{DefaultMessage, "Welcome to Gophers, <@42>! We're glad to have you here. You are member number 7."},
		{"{username} / {tag} / {username}", "ana / ana#0001 / ana"},
		{"no placeholders", "no placeholders"},
		{"{unknown}", "{unknown}"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Format(tt.template, p); got != tt.want {
			t.Errorf("Format(%q) = %v, want %v", tt.template, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"#0099ff", 0x0099ff, false},
		{"#FFFFFF", 0xffffff, false},
		{"0099ff", 0, true},
		{"#09f", 0, true},
		{"#gggggg", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestBuildEmbed(t *testing.T) {
	st := Defaults()
	st.ShowRules, st.RulesChannelID = true, "99"
	st.ImageURL = "https://example.com/banner.png"
	n := Newcomer{ID: "42", Username: "ana", Tag: "ana#0001", AvatarURL: "https://cdn/avatar.png"}
	srv := Server{Name: "Gophers", MemberCount: 7}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	e := BuildEmbed(st, n, srv, now, false)
	if e.Title != "👋 New Member!" || e.Color != 0x0099ff {
		t.Errorf("embed title/color = %q/%x", e.Title, e.Color)
	}
	if !strings.Contains(e.Description, "<@42>") || !strings.Contains(e.Description, "member number 7") {
		t.Errorf("Description = %q", e.Description)
	}
	if len(e.Fields) != 4 || e.Fields[3].Name != "📜 Server Rules" {
		t.Errorf("Fields = %d, want 3 info fields plus rules", len(e.Fields))
	}
	if e.Image == nil || e.Image.URL != st.ImageURL {
		t.Errorf("Image = %+v", e.Image)
	}

	preview := BuildEmbed(st, n, srv, now, true)
	if last := preview.Fields[len(preview.Fields)-1]; last.Name != "⚠️ Preview Mode" {
		t.Errorf("last preview field = %q", last.Name)
	}

	bare := BuildEmbed(Settings{EmbedColor: "bogus"}, n, srv, now, false)
	if bare.Title != "Welcome to Gophers!" || bare.Color != 0x0099ff || !strings.Contains(bare.Description, "Welcome to the server") {
		t.Errorf("fallback embed = %+v", bare)
	}
}

func TestMentionContent(t *testing.T) {
	st := Defaults()
	if got := MentionContent(st, "42"); got != "<@42>" {
		t.Errorf("MentionContent() = %q, want <@42>", got)
	}
	st.MentionUser = false
	if got := MentionContent(st, "42"); got != "" {
		t.Errorf("MentionContent(disabled) = %q, want empty", got)
	}
}

func TestStatusEmbed(t *testing.T) {
	e := StatusEmbed(Settings{Enabled: true, ChannelID: "c"}, time.Now())
	if e.Fields[0].Value != "✅ Enabled" || e.Fields[1].Value != "<#c>" || e.Fields[4].Value != "Not set" {
		t.Errorf("StatusEmbed fields = %v, %v, %v", e.Fields[0].Value, e.Fields[1].Value, e.Fields[4].Value)
	}
}

func TestGreeterDisabled(t *testing.T) {
	store := NewStore()
	g := NewGreeter(store, nil)
	if g.Store() != store {
		t.Fatal("Store() returned a different store")
	}

	if _, _, err := g.Preview("g", nil); err != ErrDisabled {
		t.Errorf("Preview() error = %v, want %v", err, ErrDisabled)
	}

	store.Enable("g", "c")
	store.Disable("g")
	if _, _, err := g.Preview("g", nil); err != ErrDisabled {
		t.Errorf("Preview() after Disable error = %v, want %v", err, ErrDisabled)
	}
}
