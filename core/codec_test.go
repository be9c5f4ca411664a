package core

import "testing"

func TestJSONAuthCodecRoundTrip(t *testing.T) {
	codec := JSONAuthCodec{}
	auth := PersistedAuth{
		Token:        "t1",
		RefreshToken: "r1",
		User: &Identity{
			Email:         "a@b.com",
			Organizations: []Organization{{ID: "org-1", Selected: true}},
		},
	}
	encoded, err := codec.Encode(auth)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Token != "t1" || decoded.RefreshToken != "r1" {
		t.Fatalf("unexpected credentials: %+v", decoded)
	}
	if decoded.User == nil || decoded.User.Email != "a@b.com" {
		t.Fatalf("expected user preserved, got %+v", decoded.User)
	}
}

func TestJSONAuthCodecDecodeEmpty(t *testing.T) {
	if _, err := (JSONAuthCodec{}).Decode(nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestLegacyTokenAuthCodec(t *testing.T) {
	codec := LegacyTokenAuthCodec{}
	encoded, err := codec.Encode(PersistedAuth{Token: "legacy-token"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := codec.Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Token != "legacy-token" || decoded.RefreshToken != "" {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
	if _, err := codec.Encode(PersistedAuth{}); err == nil {
		t.Fatalf("expected error encoding empty token")
	}
}
