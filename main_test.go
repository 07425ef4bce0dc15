package main

import "testing"

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedVersion := "1.0.0"
	if Version != expectedVersion {
		t.Errorf("Expected version %s, got %s", expectedVersion, Version)
	}

	expectedAppName := "Lobby Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port != 0 {
		t.Errorf("Port flag should default to 0 (use PORT env), got %d", *port)
	}

	if *ngrokFlag {
		t.Error("Ngrok should be disabled by default")
	}
}

// Note: We can't easily test main() and runServer() without significant
// mocking or refactoring, as they start servers and block. The end to end
// behavior is covered by the integration tests in transport/websocket.
