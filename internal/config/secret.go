package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// password resolves the basic auth password from whichever source is
// configured: the plain value, an environment variable, or a KEY=VALUE
// store file referenced as "FILE:KEY".
func (s Settings) password() (string, error) {
	sources := 0
	for _, v := range []string{s.AuthPwPlain, s.AuthPwEnv, s.AuthPwStore} {
		if v != "" {
			sources++
		}
	}
	if sources > 1 {
		return "", errors.New("at most one of auth_pw_plain, auth_pw_env, and auth_pwstore can be used")
	}

	switch {
	case s.AuthPwPlain != "":
		return s.AuthPwPlain, nil
	case s.AuthPwEnv != "":
		v, ok := os.LookupEnv(s.AuthPwEnv)
		if !ok {
			return "", fmt.Errorf("environment variable %q is not set", s.AuthPwEnv)
		}
		return v, nil
	case s.AuthPwStore != "":
		return readPwStore(s.AuthPwStore)
	default:
		return "", nil
	}
}

func readPwStore(ref string) (string, error) {
	// The split is on the last colon so the file part can be a Windows
	// path with a drive letter.
	i := strings.LastIndex(ref, ":")
	if i < 0 {
		return "", fmt.Errorf("invalid pwstore reference: %q (expected \"FILE:KEY\")", ref)
	}
	file, key := ref[:i], ref[i+1:]

	values, err := godotenv.Read(file)
	if err != nil {
		return "", fmt.Errorf("failed to read password store: %w", err)
	}

	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("password store has no key %q", key)
	}
	return v, nil
}
