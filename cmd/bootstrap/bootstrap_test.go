package bootstrap

import (
	"testing"

	"medical-appointment-scheduler/config"
	"medical-appointment-scheduler/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestUploadPrefix(t *testing.T) {
	assert.Equal(t, "/uploads", uploadPrefix("/uploads"))
	assert.Equal(t, "/files/exams", uploadPrefix("https://cdn.clinic.example.com/files/exams"))
	assert.Equal(t, "/uploads", uploadPrefix(""))
}

func TestNewNotifierFollowsDriver(t *testing.T) {
	log := logrus.New()

	assert.IsType(t, &service.LogNotifier{}, newNotifier(config.NotifierConfig{Driver: service.NotifierDriverLog}, log))
	assert.IsType(t, &service.EmailNotifier{}, newNotifier(config.NotifierConfig{
		Driver:   service.NotifierDriverEmail,
		SMTPHost: "smtp.clinic.example.com",
		SMTPPort: 587,
		From:     "noreply@clinic.example.com",
	}, log))
	assert.IsType(t, &service.LogNotifier{}, newNotifier(config.NotifierConfig{}, log))
}

func TestSetupLoggerLevelFollowsEnv(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	assert.Equal(t, logrus.DebugLevel, SetupLogger("development").GetLevel())
	assert.Equal(t, logrus.InfoLevel, SetupLogger("production").GetLevel())
}
