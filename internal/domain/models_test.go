package domain

import "testing"

func TestServerConfigRedacted(t *testing.T) {
	server := ServerConfig{
		Address:    "jellyfin.local",
		Port:       "8096",
		Protocol:   "http",
		Username:   "alice",
		Password:   "hunter2",
		ServerID:   "srv-1",
		ServerName: "Home",
	}

	masked := server.Redacted()

	for name, got := range map[string]string{
		"Address":  masked.Address,
		"Username": masked.Username,
		"Password": masked.Password,
	} {
		if got != "[redacted]" {
			t.Errorf("%s not masked: %q", name, got)
		}
	}
	if masked.ServerName != "Home" || masked.Port != "8096" {
		t.Errorf("non-sensitive fields must survive: %+v", masked)
	}
	if server.Password != "hunter2" {
		t.Error("Redacted must not mutate the original")
	}
}

func TestSessionRedacted(t *testing.T) {
	session := Session{
		UserName:       "alice",
		Client:         "Jellyfin Web",
		RemoteEndPoint: "203.0.113.7",
	}

	masked := session.Redacted()

	if masked.RemoteEndPoint != "[redacted]" {
		t.Errorf("RemoteEndPoint not masked: %q", masked.RemoteEndPoint)
	}
	if masked.UserName != "alice" || masked.Client != "Jellyfin Web" {
		t.Errorf("non-sensitive fields must survive: %+v", masked)
	}
	if session.RemoteEndPoint != "203.0.113.7" {
		t.Error("Redacted must not mutate the original")
	}
}
