package assist

import "testing"

func TestExtractJSONWholeBody(t *testing.T) {
	body := `{"skill_slug":"weather","risk_score":10,"result":"safe","findings":[]}`
	got, ok := ExtractJSON(body)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if got != body {
		t.Errorf("expected whole body returned, got %q", got)
	}
}

func TestExtractJSONFencedBlock(t *testing.T) {
	body := "Here is the report:\n```json\n{\"result\":\"caution\",\"findings\":[{\"pattern_id\":\"PS_001\"}]}\n```\nThanks."
	got, ok := ExtractJSON(body)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if got == "" {
		t.Error("expected non-empty candidate")
	}
}

func TestExtractJSONBalancedBraces(t *testing.T) {
	body := `Some prose before. {"risk_score": 5, "findings": []} some prose after.`
	got, ok := ExtractJSON(body)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if got == "" {
		t.Error("expected non-empty candidate")
	}
}

func TestExtractJSONRejectsCandidateWithoutRequiredFields(t *testing.T) {
	body := `{"findings": [{"title": "x"}]}` // no skill_slug/risk_score/result
	if _, ok := ExtractJSON(body); ok {
		t.Error("expected rejection when no skill_slug/risk_score/result present")
	}
}

func TestExtractJSONRejectsJSONShapedProseWithoutFindings(t *testing.T) {
	body := `{"skill_slug": "weather", "risk_score": 10}`
	if _, ok := ExtractJSON(body); ok {
		t.Error("expected rejection when findings array is absent")
	}
}

func TestExtractJSONNoJSONAtAll(t *testing.T) {
	if _, ok := ExtractJSON("I'm sorry, I cannot help with that request."); ok {
		t.Error("expected no candidate for pure prose")
	}
}

func TestExtractVerificationJSONAcceptsAnyObject(t *testing.T) {
	body := "```\n{\"verification_status\":\"verified\",\"code_exists\":true}\n```"
	got, ok := ExtractVerificationJSON(body)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if got == "" {
		t.Error("expected non-empty candidate")
	}
}

func TestErrorPreviewTruncatesLongBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	preview := errorPreview(string(long))
	if len(preview) >= 1000 {
		t.Errorf("expected preview shorter than original, got %d bytes", len(preview))
	}
}
