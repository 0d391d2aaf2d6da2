// Package install reconciles the merged plugin set against the plugins
// root: it decides per record whether the installed artifact is still
// valid, installs what is missing or outdated, aggregates the runtime
// configuration document, and removes artifacts no record references
// anymore.
package install

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/dynplug/internal/core/domain"
	"go.trai.ch/dynplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// Skip reasons, logged next to the package and attached to the span.
const (
	reasonDisabled         = "disabled"
	reasonNotInstalled     = "not installed"
	reasonAlreadyInstalled = "already installed"
	reasonForced           = "forced"
	reasonDigestUnchanged  = "digest unchanged"
)

// Options configure a reconciliation run.
type Options struct {
	// Root is the destination directory for installed plugins.
	Root string

	// SkipIntegrity disables integrity verification of remote registry
	// packages. Local packages are never verified.
	SkipIntegrity bool
}

// Reconciler drives the installation state of the plugins root towards
// the merged plugin set.
type Reconciler struct {
	store     ports.StateStore
	registry  ports.PackageRegistry
	images    ports.ImageClient
	extractor ports.ArchiveExtractor
	inspector ports.PackageInspector
	loader    ports.ManifestLoader
	tracer    ports.Tracer
	logger    ports.Logger
}

// NewReconciler creates a new Reconciler with the given dependencies.
func NewReconciler(
	store ports.StateStore,
	registry ports.PackageRegistry,
	images ports.ImageClient,
	extractor ports.ArchiveExtractor,
	inspector ports.PackageInspector,
	loader ports.ManifestLoader,
	tracer ports.Tracer,
	logger ports.Logger,
) *Reconciler {
	return &Reconciler{
		store:     store,
		registry:  registry,
		images:    images,
		extractor: extractor,
		inspector: inspector,
		loader:    loader,
		tracer:    tracer,
		logger:    logger,
	}
}

// item is one record prepared for reconciliation.
type item struct {
	key  string
	rec  domain.Record
	hash string
}

// Run reconciles the plugins root against the merged set.
//
// Records are processed one at a time in sorted identity order; the
// first failing record aborts the run, leaving earlier installs in
// place. The merged configuration document is written before stale
// directories are removed, so a failing removal can never leave a
// document referencing deleted plugins.
func (r *Reconciler) Run(ctx context.Context, set domain.PluginSet, opts Options) error {
	items, err := r.prepare(set)
	if err != nil {
		return err
	}

	index, err := r.store.InstalledIndex(opts.Root)
	if err != nil {
		return err
	}

	planned := make([]string, len(items))
	for i, it := range items {
		planned[i] = it.rec.Package()
	}
	r.tracer.EmitPlan(ctx, planned)

	global := domain.NewGlobalConfig()
	for _, it := range items {
		fragment, err := r.reconcileOne(ctx, it, index, opts)
		if err != nil {
			return zerr.With(
				zerr.Wrap(err, domain.ErrInstallationFailed.Error()),
				"package", it.rec.Package(),
			)
		}

		global, err = domain.MergeConfig(fragment, global)
		if err != nil {
			return zerr.With(err, "package", it.rec.Package())
		}
	}

	if err := r.loader.WriteGlobalConfig(domain.GlobalConfigPath(opts.Root), global); err != nil {
		return err
	}

	r.removeStale(ctx, index, opts)
	return nil
}

// prepare hashes every record and returns the items in sorted identity
// order, so runs are deterministic regardless of map iteration order.
func (r *Reconciler) prepare(set domain.PluginSet) ([]item, error) {
	items := make([]item, 0, len(set))
	for _, key := range slices.Sorted(maps.Keys(set)) {
		rec := set[key]
		hash, err := r.hashRecord(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item{key: key, rec: rec, hash: hash})
	}
	return items, nil
}

// hashRecord computes the content hash of a record. Local sources fold
// in the package fingerprint so edits re-install without a version bump.
func (r *Reconciler) hashRecord(rec domain.Record) (string, error) {
	if rec.Kind() != domain.SourceLocal {
		return domain.RecordHash(rec)
	}
	h := rec.Clone()
	h[domain.FieldLocalInfo] = r.inspector.LocalInfo(rec.Package())
	return domain.RecordHash(h)
}

// reconcileOne processes a single record under its own span and returns
// the pluginConfig fragment to merge into the global document. Disabled
// records contribute nothing; skipped records still contribute theirs.
func (r *Reconciler) reconcileOne(
	ctx context.Context,
	it item,
	index map[string]string,
	opts Options,
) (map[string]any, error) {
	pkg := it.rec.Package()
	ctx, span := r.tracer.Start(ctx, pkg)
	defer span.End()

	if it.rec.Disabled() {
		r.logger.Info(fmt.Sprintf("skipping disabled dynamic plugin %s", pkg))
		span.SetAttribute("dynplug.skip", reasonDisabled)
		return nil, nil
	}

	skip, reason, err := r.shouldSkip(ctx, it, index, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if skip {
		r.logger.Info(fmt.Sprintf(
			"skipping download of already installed dynamic plugin %s (%s)", pkg, reason))
		span.SetAttribute("dynplug.skip", reason)
		// Keep the artifact out of the stale set.
		delete(index, it.hash)
		return it.rec.PluginConfig(), nil
	}

	r.logger.Info(fmt.Sprintf("installing dynamic plugin %s (%s)", pkg, reason))

	var pluginDir string
	switch it.rec.Kind() {
	case domain.SourceContainer:
		pluginDir, err = r.installContainer(ctx, span, it.rec, index, opts)
	case domain.SourceRegistry, domain.SourceLocal:
		pluginDir, err = r.installRegistry(ctx, span, it.rec, opts)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// The hash sidecar is written strictly last: an interrupted install
	// has no sidecar and reads as not installed on the next run.
	if err := r.store.WriteConfigHash(opts.Root, pluginDir, it.hash); err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("dynplug.dir", pluginDir)
	r.logger.Info(fmt.Sprintf("successfully installed dynamic plugin %s", pkg))
	return it.rec.PluginConfig(), nil
}

// shouldSkip applies the pull policy decision table to one record.
func (r *Reconciler) shouldSkip(
	ctx context.Context,
	it item,
	index map[string]string,
	opts Options,
) (bool, string, error) {
	if it.rec.Kind() == domain.SourceContainer {
		return r.shouldSkipContainer(ctx, it, index, opts)
	}

	policy, err := it.rec.PullPolicy(domain.PullIfNotPresent)
	if err != nil {
		return false, "", err
	}

	if _, installed := index[it.hash]; !installed {
		return false, reasonNotInstalled, nil
	}
	if policy == domain.PullAlways || it.rec.ForceDownload() {
		return false, reasonForced, nil
	}
	return true, reasonAlreadyInstalled, nil
}

// shouldSkipContainer is the container variant of the decision table: a
// floating latest tag defaults to the Always policy, and Always is
// answered by comparing the recorded image digest against the registry
// instead of re-fetching unconditionally.
func (r *Reconciler) shouldSkipContainer(
	ctx context.Context,
	it item,
	index map[string]string,
	opts Options,
) (bool, string, error) {
	def := domain.PullIfNotPresent
	if strings.Contains(it.rec.Package(), ":latest!") {
		def = domain.PullAlways
	}
	policy, err := it.rec.PullPolicy(def)
	if err != nil {
		return false, "", err
	}

	dir, installed := index[it.hash]
	if !installed {
		return false, reasonNotInstalled, nil
	}
	if policy == domain.PullIfNotPresent {
		return true, reasonAlreadyInstalled, nil
	}

	local, err := r.store.ReadImageDigest(opts.Root, dir)
	if err != nil {
		return false, "", err
	}
	remote, err := r.remoteDigest(ctx, it.rec.Package())
	if err != nil {
		return false, "", err
	}
	if local != "" && remote == local {
		return true, reasonDigestUnchanged, nil
	}
	return false, reasonForced, nil
}

// removeStale deletes every directory still tracked by the index: its
// hash was referenced by no record, so the plugin has been removed from
// the configuration. Removal is best effort.
func (r *Reconciler) removeStale(ctx context.Context, index map[string]string, opts Options) {
	if len(index) == 0 {
		return
	}

	_, span := r.tracer.Start(ctx, "Removing stale plugins")
	defer span.End()

	for _, hash := range slices.Sorted(maps.Keys(index)) {
		dir := index[hash]
		r.logger.Info(fmt.Sprintf("removing previously installed dynamic plugin %s", dir))
		_, _ = fmt.Fprintf(span, "removing %s\n", dir)
		if err := r.store.RemovePluginDir(opts.Root, dir); err != nil {
			r.logger.Warn(fmt.Sprintf("failed to remove stale plugin %s: %v", dir, err))
		}
	}
}
