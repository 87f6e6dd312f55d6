package registry

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/metrics"
	"github.com/ajitpratap0/tablefactory/pkg/options"
)

type stubFactory struct {
	id       string
	required []options.Key
	optional []options.Key
}

func (f *stubFactory) FactoryIdentifier() string      { return f.id }
func (f *stubFactory) RequiredOptions() []options.Key { return f.required }
func (f *stubFactory) OptionalOptions() []options.Key { return f.optional }

type stubSourceFactory struct{ stubFactory }

func (f *stubSourceFactory) CreateSource(*core.Context) (core.TableSource, error) { return nil, nil }

type stubSinkFactory struct{ stubFactory }

func (f *stubSinkFactory) CreateSink(*core.Context) (core.TableSink, error) { return nil, nil }

func source(id string) *stubSourceFactory { return &stubSourceFactory{stubFactory{id: id}} }
func sink(id string) *stubSinkFactory     { return &stubSinkFactory{stubFactory{id: id}} }

func TestRegisterDuplicateIdentifier(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("source-only", source("source-only")))

	err := b.Register("source-only", source("source-only"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateIdentifier))
	id, _ := errors.Detail(err, errors.DetailIdentifier)
	assert.Equal(t, "source-only", id)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	b := NewBuilder()

	err := b.Register("", source(""))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	err = b.Register("kafka", nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	var typedNil *stubSourceFactory
	assert.NotPanics(t, func() { err = b.Register("kafka", typedNil) })
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	err = b.Register("kafka", source("pulsar"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	dup := &stubSourceFactory{stubFactory{
		id:       "dup",
		required: []options.Key{options.String("topic").Key()},
		optional: []options.Key{options.Bool("topic").Key()},
	}}
	err = b.Register("dup", dup)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateOption))
	assert.Equal(t, 0, b.Build().Len())
}

func TestRegisterAfterBuild(t *testing.T) {
	b := NewBuilder()
	reg := b.Build()

	err := b.Register("late", source("late"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeLifecycle))
	assert.False(t, reg.Has("late"))
}

func TestResolve(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("source-only", source("source-only")))
	require.NoError(t, b.Register("sink-only", sink("sink-only")))
	reg := b.Build()

	f, err := reg.Resolve("source-only")
	require.NoError(t, err)
	assert.Equal(t, "source-only", f.FactoryIdentifier())

	_, err = reg.Resolve("kafka")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoSuchFactory))
	available, _ := errors.Detail(err, errors.DetailAvailable)
	assert.Equal(t, []string{"sink-only", "source-only"}, available)
}

func TestResolveByCapability(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("source-only", source("source-only")))
	require.NoError(t, b.Register("sink-only", sink("sink-only")))
	reg := b.Build()

	_, err := reg.ResolveSource("source-only")
	require.NoError(t, err)
	_, err = reg.ResolveSink("sink-only")
	require.NoError(t, err)

	_, err = reg.ResolveSink("source-only")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoSuchFactory))
	available, _ := errors.Detail(err, errors.DetailAvailable)
	assert.Equal(t, []string{"sink-only"}, available)

	_, err = reg.ResolveSource("sink-only")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoSuchFactory))
}

func TestResolutionMetricsLabelUnknownIdentifiers(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("metrics-source", source("metrics-source")))
	reg := b.Build()

	unknownAny := metrics.Resolutions.WithLabelValues("unknown", "any", metrics.StatusFailure)
	unknownSource := metrics.Resolutions.WithLabelValues("unknown", string(core.CapabilitySource), metrics.StatusFailure)
	unknownSink := metrics.Resolutions.WithLabelValues("unknown", string(core.CapabilitySink), metrics.StatusFailure)
	missingSink := metrics.Resolutions.WithLabelValues("metrics-source", string(core.CapabilitySink), metrics.StatusFailure)
	beforeAny := testutil.ToFloat64(unknownAny)
	beforeSource := testutil.ToFloat64(unknownSource)
	beforeSink := testutil.ToFloat64(unknownSink)
	beforeMissing := testutil.ToFloat64(missingSink)

	_, err := reg.Resolve("user-typed-1")
	require.Error(t, err)
	_, err = reg.ResolveSource("user-typed-2")
	require.Error(t, err)
	_, err = reg.ResolveSink("user-typed-3")
	require.Error(t, err)
	_, err = reg.ResolveSink("metrics-source")
	require.Error(t, err)

	assert.Equal(t, beforeAny+1, testutil.ToFloat64(unknownAny))
	assert.Equal(t, beforeSource+1, testutil.ToFloat64(unknownSource))
	assert.Equal(t, beforeSink+1, testutil.ToFloat64(unknownSink))
	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(missingSink))

	assert.False(t, metrics.Resolutions.DeleteLabelValues("user-typed-1", "any", metrics.StatusFailure))
	assert.False(t, metrics.Resolutions.DeleteLabelValues("user-typed-2", string(core.CapabilitySource), metrics.StatusFailure))
	assert.False(t, metrics.Resolutions.DeleteLabelValues("user-typed-3", string(core.CapabilitySink), metrics.StatusFailure))
}

func TestRegisterAll(t *testing.T) {
	pairs := func(yield func(string, core.Factory) bool) {
		for _, f := range []core.Factory{source("a"), sink("b"), source("a")} {
			if !yield(f.FactoryIdentifier(), f) {
				return
			}
		}
	}

	b := NewBuilder()
	err := b.RegisterAll(pairs)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateIdentifier))
	assert.Equal(t, []string{"a", "b"}, b.Build().Identifiers())
}

func TestBuiltRegistryIsIsolatedFromBuilder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Register("a", source("a")))
	first := b.Build()

	other := NewBuilder()
	require.NoError(t, other.Register("b", source("b")))
	second := other.Build()

	assert.True(t, first.Has("a"))
	assert.False(t, first.Has("b"))
	assert.False(t, second.Has("a"))

	ids := first.Identifiers()
	ids[0] = "mutated"
	assert.Equal(t, []string{"a"}, first.Identifiers())
}

func TestConcurrentResolve(t *testing.T) {
	b := NewBuilder()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, b.Register(id, source(id)))
	}
	reg := b.Build()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for _, id := range []string{"a", "b", "c"} {
					f, err := reg.ResolveSource(id)
					if assert.NoError(t, err) {
						assert.Equal(t, id, f.FactoryIdentifier())
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestCatalog(t *testing.T) {
	f := &stubSourceFactory{stubFactory{
		id:       "kafka",
		required: []options.Key{options.String("topic").WithDescription("topic to read").Key()},
		optional: []options.Key{options.Bool("scan.bounded").WithDefault(false).Key()},
	}}
	b := NewBuilder()
	require.NoError(t, b.Register("kafka", f))
	reg := b.Build()

	info, err := reg.Info("kafka")
	require.NoError(t, err)
	assert.Equal(t, []string{"source"}, info.Capabilities)
	require.Len(t, info.Options, 2)
	assert.Equal(t, OptionInfo{Key: "scan.bounded", Type: "BOOLEAN", Default: "false"}, info.Options[0])
	assert.Equal(t, OptionInfo{Key: "topic", Type: "STRING", Required: true, Description: "topic to read"}, info.Options[1])

	infos, err := reg.Catalog()
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	_, err = reg.Info("missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoSuchFactory))
}

func TestDiscovery(t *testing.T) {
	discoveryMu.Lock()
	saved := discovered
	discovered = nil
	discoveryMu.Unlock()
	t.Cleanup(func() {
		discoveryMu.Lock()
		discovered = saved
		discoveryMu.Unlock()
	})

	Provide(source("x"))
	Provide(sink("y"))

	reg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, reg.Identifiers())

	Provide(source("x"))
	_, err = Default()
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateIdentifier))
}
