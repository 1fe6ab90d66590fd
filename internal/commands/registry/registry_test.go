package registry

import (
	"testing"

	"github.com/kiegroup/kie-pr-builds/internal/config"
	"github.com/kiegroup/kie-pr-builds/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type mockCommandFactory struct {
	name string
}

func (m *mockCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name: m.name,
	}
}

func newRegistry(t *testing.T) *Registry {
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return NewRegistry(config.Default(), translations)
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register new factory successfully", func(t *testing.T) {
		registry := newRegistry(t)

		err := registry.Register("test-command", &mockCommandFactory{name: "test-command"})

		assert.NoError(t, err)
		assert.Len(t, registry.factories, 1)
		assert.Contains(t, registry.factories, "test-command")
	})

	t.Run("should return error when registering duplicate factory", func(t *testing.T) {
		registry := newRegistry(t)
		factory := &mockCommandFactory{name: "test-command"}

		_ = registry.Register("test-command", factory)
		err := registry.Register("test-command", factory)

		assert.EqualError(t, err, "command 'test-command' is already registered")
		assert.Len(t, registry.factories, 1)
	})
}

func TestRegistry_CreateCommands(t *testing.T) {
	registry := newRegistry(t)
	for _, name := range []string{"build", "refs", "repos", "config"} {
		require.NoError(t, registry.Register(name, &mockCommandFactory{name: name}))
	}

	commands := registry.CreateCommands()

	require.Len(t, commands, 4)
	assert.Equal(t, "build", commands[0].Name)
	assert.Equal(t, "refs", commands[1].Name)
	assert.Equal(t, "repos", commands[2].Name)
	assert.Equal(t, "config", commands[3].Name)
}
