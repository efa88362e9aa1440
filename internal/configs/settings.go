package configs

import (
	"log"
	"os"
	"path/filepath"

	"github.com/oakmoss-dev/sealcrate/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	Username        string
}

var UserSealcrateSettings *UserSettings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// Independent of which vault is in use, so it is ok to init here.
	UserSealcrateSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "sealcrate"),
		Username:        username,
	}
}
