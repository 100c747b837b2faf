package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"token": map[string]any{
			"accessTtl": "1h",
			"secret":    "",
		},
		"auth": map[string]any{
			"bcryptCost":  10,
			"hashWorkers": 0,
		},
		"env": map[string]any{
			"serviceName": "gatekeeper",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "TOKEN_ACCESSTTL", want: "token.accessTtl"},
		{envKey: "TOKEN_SECRET", want: "token.secret"},
		{envKey: "AUTH_BCRYPTCOST", want: "auth.bcryptCost"},
		{envKey: "AUTH_HASHWORKERS", want: "auth.hashWorkers"},
		{envKey: "ENV_SERVICENAME", want: "env.serviceName"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
