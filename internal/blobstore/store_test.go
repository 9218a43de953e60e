package blobstore

import "testing"

func TestDeriveJobID(t *testing.T) {
	url := "https://minio:9000/modelpuzzle-uploads/smart-import/ab12cd34.pdf" +
		"?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Signature=deadbeef"
	id, err := DeriveJobID(url)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if id != "ab12cd34" {
		t.Fatalf("unexpected job id: %q", id)
	}
}

func TestDeriveJobIDRoundTrip(t *testing.T) {
	id, err := DeriveJobID("http://host/bucket/" + objectKey("job42"))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if id != "job42" {
		t.Fatalf("object key did not round-trip: %q", id)
	}
}

func TestDeriveJobIDRejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"", "   ", "https://host/"} {
		if _, err := DeriveJobID(raw); err == nil {
			t.Fatalf("accepted %q", raw)
		}
	}
}
