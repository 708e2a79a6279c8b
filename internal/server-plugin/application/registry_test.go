//go:build !integration

package plugins_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/fx"

	plugins "github.com/alex-galey/coach-mcp/internal/server-plugin/application"
	"github.com/alex-galey/coach-mcp/internal/server-plugin/domain"
)

// createTestLogger creates a quiet logger for testing that discards output
func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError, // Only show errors and above during tests
	}))
}

// MockServerPlugin is a mock implementation of ServerPlugin for testing
type MockServerPlugin struct {
	id        string
	callCount map[string]int
}

func NewMockServerPlugin(id string) *MockServerPlugin {
	return &MockServerPlugin{
		id:        id,
		callCount: make(map[string]int),
	}
}

func (m *MockServerPlugin) ID() string          { return m.id }
func (m *MockServerPlugin) Name() string        { return m.id }
func (m *MockServerPlugin) Description() string { return "Mock plugin for testing" }
func (m *MockServerPlugin) Version() string     { return "1.0.0" }

func (m *MockServerPlugin) GetCallCount(method string) int {
	return m.callCount[method]
}

// MockToolPlugin additionally provides tools
type MockToolPlugin struct {
	*MockServerPlugin
}

func NewMockToolPlugin(id string) *MockToolPlugin {
	return &MockToolPlugin{MockServerPlugin: NewMockServerPlugin(id)}
}

func (m *MockToolPlugin) GetTools(ctx context.Context) ([]domain.Tool, error) {
	m.callCount["GetTools"]++
	return []domain.Tool{}, nil
}

var _ = Describe("ServerPluginRegistry", func() {
	var registry *plugins.ServerPluginRegistry

	BeforeEach(func() {
		registry = plugins.NewServerPluginRegistry()
	})

	Describe("Register", func() {
		It("should register plugins and list them in order", func() {
			Expect(registry.Register(NewMockServerPlugin("alpha"))).To(Succeed())
			Expect(registry.Register(NewMockServerPlugin("beta"))).To(Succeed())

			registered := registry.GetServerPlugins()
			Expect(registered).To(HaveLen(2))
			Expect(registered[0].ID()).To(Equal("alpha"))
			Expect(registered[1].ID()).To(Equal("beta"))
		})

		It("should refuse duplicate plugin ids", func() {
			Expect(registry.Register(NewMockServerPlugin("alpha"))).To(Succeed())

			err := registry.Register(NewMockServerPlugin("alpha"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Capability filtering", func() {
		BeforeEach(func() {
			Expect(registry.Register(NewMockServerPlugin("plain"))).To(Succeed())
			Expect(registry.Register(NewMockToolPlugin("tools"))).To(Succeed())
		})

		It("should only return plugins implementing the capability", func() {
			providers := registry.GetToolProviders()
			Expect(providers).To(HaveLen(1))
			Expect(providers[0].ID()).To(Equal("tools"))

			Expect(registry.GetResourceProviders()).To(BeEmpty())
			Expect(registry.GetPromptProviders()).To(BeEmpty())
		})
	})

	Describe("RegisterAll", func() {
		It("should register every plugin contributed through the fx group", func() {
			params := plugins.RegisterParams{
				ServerPlugins: []domain.ServerPlugin{
					NewMockServerPlugin("alpha"),
					NewMockServerPlugin("beta"),
				},
			}

			Expect(plugins.RegisterAll(registry, params)).To(Succeed())
			Expect(registry.GetServerPlugins()).To(HaveLen(2))
		})

		It("should surface duplicate registrations as an error", func() {
			params := plugins.RegisterParams{
				ServerPlugins: []domain.ServerPlugin{
					NewMockServerPlugin("alpha"),
					NewMockServerPlugin("alpha"),
				},
			}

			Expect(plugins.RegisterAll(registry, params)).To(HaveOccurred())
		})
	})

	Describe("Fx Integration", func() {
		It("should integrate properly with dependency injection", func() {
			var testRegistry *plugins.ServerPluginRegistry

			app := fx.New(
				fx.Provide(
					func() *slog.Logger { return createTestLogger() },
					plugins.NewServerPluginRegistry,
					fx.Annotate(
						func() domain.ServerPlugin { return NewMockServerPlugin("test") },
						fx.ResultTags(`group:"server_plugins"`),
					),
				),
				fx.Invoke(plugins.RegisterAll),
				fx.Populate(&testRegistry),
				fx.NopLogger, // Suppress Fx logs during testing
			)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := app.Start(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(testRegistry).NotTo(BeNil())
			Expect(testRegistry.GetServerPlugins()).To(HaveLen(1))

			err = app.Stop(ctx)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
