// ABOUTME: Entry point for the keyclack keystroke sound player
// ABOUTME: Parses CLI flags and config, wires components, handles signals
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harperreed/keyclack/internal/hook"
	"github.com/harperreed/keyclack/internal/keylog"
	"github.com/harperreed/keyclack/internal/listener"
	"github.com/harperreed/keyclack/internal/player"
	"github.com/harperreed/keyclack/internal/store"
	"github.com/harperreed/keyclack/internal/version"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:          "keyclack",
		Short:        "Play a sound on every keystroke",
		Long:         "Keyclack listens to the system keyboard and plays a short clip on every key press,\nwithout ever holding up your typing.",
		Version:      version.Version,
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().String("sound", "", "sound file played on every key press (.wav, .mp3 or .flac)")
	rootCmd.Flags().Int("capacity", 16, "maximum number of decoded clips kept in memory")
	rootCmd.Flags().String("key-log", "", "append key-down events to this file (disabled when empty)")
	rootCmd.Flags().String("log-file", "", "write diagnostic logs to this file as well as stdout")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/keyclack/keyclack.yaml)")

	_ = viper.BindPFlag("sound", rootCmd.Flags().Lookup("sound"))
	_ = viper.BindPFlag("capacity", rootCmd.Flags().Lookup("capacity"))
	_ = viper.BindPFlag("key_log", rootCmd.Flags().Lookup("key-log"))
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log-file"))
}

func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.config/keyclack")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("keyclack")
	}

	viper.SetEnvPrefix("keyclack")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if path := viper.GetString("log_file"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = f.Close() }()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	soundPath := viper.GetString("sound")
	if soundPath == "" {
		return fmt.Errorf("no sound configured; pass --sound or set it in the config file")
	}

	st, err := store.New(viper.GetInt("capacity"), nil)
	if err != nil {
		return err
	}
	defer st.EvictAll()

	engine := player.NewEngine()
	defer func() {
		if err := engine.Close(); err != nil {
			log.Printf("closing playback engine: %v", err)
		}
	}()

	// Load failures surface here, before the hook ever starts.
	if err := st.Load(soundPath); err != nil {
		return fmt.Errorf("loading %s: %w", soundPath, err)
	}
	log.Printf("Loaded %s", soundPath)

	var sink listener.EventSink
	if path := viper.GetString("key_log"); path != "" {
		kl, err := keylog.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = kl.Close() }()
		sink = kl
		log.Printf("Logging key events to %s", path)
	}

	l := listener.New(hook.New(), sink)
	l.AddCallback(keyCallback(engine, st, soundPath))

	if err := l.Start(); err != nil {
		return err
	}
	log.Printf("%s %s listening; press Ctrl+C to stop", version.Product, version.Version)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Printf("Shutdown signal received")

	if err := l.Stop(); err != nil {
		log.Printf("stopping listener: %v", err)
	}
	log.Printf("Listener stopped")
	return nil
}

// keyCallback binds the default clip plus any per-key overrides from
// the config file (keys: {enter: clack.wav, space: thock.wav}).
func keyCallback(engine *player.Engine, st *store.Store, defaultPath string) listener.Callback {
	overrides := viper.GetStringMapString("keys")

	bound := make(map[string]listener.Callback, len(overrides))
	for key, path := range overrides {
		bound[key] = engine.BindKey(st, path)
		if err := st.Load(path); err != nil {
			log.Printf("preloading %s for key %q: %v", path, key, err)
		}
	}
	fallback := engine.BindKey(st, defaultPath)

	if len(bound) == 0 {
		return fallback
	}
	return func(ev listener.KeyEvent) {
		if cb, ok := bound[ev.Key]; ok {
			cb(ev)
			return
		}
		fallback(ev)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
