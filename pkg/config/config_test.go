package config_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fschiettecatte/mps/pkg/config"
)

func TestParseSocketSpec(t *testing.T) {
	cases := []struct {
		in      string
		want    config.SocketSpec
		wantErr bool
	}{
		{in: "tcp:127.0.0.1:1978", want: config.SocketSpec{Proto: "tcp", Host: "127.0.0.1", Port: 1978}},
		{in: "127.0.0.1:1978", want: config.SocketSpec{Proto: "tcp", Host: "127.0.0.1", Port: 1978}},
		{in: "udp::1978", want: config.SocketSpec{Proto: "udp", Host: "", Port: 1978}},
		{in: "sctp:127.0.0.1:1978", wantErr: true},
		{in: "not-a-socket", wantErr: true},
	}

	for _, c := range cases {
		got, err := config.ParseSocketSpec(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseSocketSpec(%q): expected error, got %+v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSocketSpec(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSocketSpec(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestLoadServerConfigWithoutSocketSelectsStdio(t *testing.T) {
	cmd := &cobra.Command{Use: "mpsd"}
	v := viper.New()
	config.RegisterServerFlags(cmd, v)
	_ = v.BindPFlag("index-directory", cmd.Flags().Lookup("index-directory"))
	v.Set("index-directory", "/var/mps/index")

	cfg, err := config.LoadServerConfig(v)
	if err != nil {
		t.Fatalf("expected no --socket to be accepted for the stdio worker, got %v", err)
	}
	if len(cfg.Sockets) != 0 {
		t.Fatalf("unexpected sockets: %+v", cfg.Sockets)
	}
}

func TestLoadServerConfigValid(t *testing.T) {
	cmd := &cobra.Command{Use: "mpsd"}
	v := viper.New()
	config.RegisterServerFlags(cmd, v)
	v.Set("index-directory", "/var/mps/index")
	v.Set("socket", []string{"tcp:127.0.0.1:1978"})

	cfg, err := config.LoadServerConfig(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Sockets) != 1 || cfg.Sockets[0].Port != 1978 {
		t.Fatalf("unexpected sockets: %+v", cfg.Sockets)
	}
}

func TestLoadIndexerConfigRequiresName(t *testing.T) {
	cmd := &cobra.Command{Use: "mpsindex"}
	v := viper.New()
	config.RegisterIndexerFlags(cmd, v)
	v.Set("index-directory", "/var/mps/index")

	_, err := config.LoadIndexerConfig(v)
	if err == nil {
		t.Fatal("expected a validation error when --index-name was not supplied")
	}
}
