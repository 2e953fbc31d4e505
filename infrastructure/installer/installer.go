package installer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/auditfix/domain"
	"github.com/rios0rios0/auditfix/infrastructure/registry"
)

// Installer applies install arguments to the dependency tree of a project
// and persists the result. The flow is load -> resolve -> save. The load and
// lifecycle behaviors are fields so a targeted run can patch the tree before
// resolution and keep manifest scripts quiet.
type Installer struct {
	dir      string
	dryRun   bool
	args     []string
	locks    domain.LockRepository
	resolver *Resolver

	// LoadLockTree produces the tree the run starts from. A nil tree means
	// there is no lockfile yet and a fresh root is built from the manifest.
	LoadLockTree func(ctx context.Context) (*domain.Node, error)

	// RunLifecycle runs the named manifest script, "preinstall" or
	// "postinstall".
	RunLifecycle func(ctx context.Context, event string) error
}

// New creates an installer that runs args against the project in dir.
func New(
	dir string,
	dryRun bool,
	args []string,
	locks domain.LockRepository,
	meta MetadataSource,
) *Installer {
	inst := &Installer{
		dir:      dir,
		dryRun:   dryRun,
		args:     args,
		locks:    locks,
		resolver: NewResolver(meta),
	}
	inst.LoadLockTree = inst.loadBaseTree
	inst.RunLifecycle = inst.runManifestScript

	return inst
}

// NewTargeted creates an installer for a remediation request: the deep paths
// are patched into the tree before resolution, and lifecycle scripts are
// suppressed so a vulnerable package cannot run code during its own removal.
func NewTargeted(
	req domain.InstallRequest,
	locks domain.LockRepository,
	meta MetadataSource,
) *Installer {
	inst := New(req.Dir, req.DryRun, req.Args, locks, meta)

	inst.LoadLockTree = func(ctx context.Context) (*domain.Node, error) {
		root, err := inst.loadBaseTree(ctx)
		if err != nil || root == nil {
			return root, err
		}
		for _, path := range req.Options.DeepPaths {
			if patchErr := domain.PatchTree(root, path); patchErr != nil {
				return nil, fmt.Errorf("failed to patch %q: %w", path.String(), patchErr)
			}
		}
		return root, nil
	}
	inst.RunLifecycle = func(context.Context, string) error { return nil }

	return inst
}

// NewFactory builds targeted installers bound to the lock repository. The
// registry client is constructed per request from the install options.
func NewFactory(locks domain.LockRepository) domain.InstallerFactory {
	return func(req domain.InstallRequest) domain.Installer {
		return NewTargeted(req, locks, registry.New(req.Options.Registry, req.Options.Token))
	}
}

var _ domain.Installer = (*Installer)(nil)

// Run executes the install: it loads the tree, resolves the requested
// arguments into it, re-resolves whatever the load pass invalidated, and
// saves the lockfile unless this is a dry run.
func (i *Installer) Run(ctx context.Context) (*domain.InstallResult, error) {
	root, err := i.LoadLockTree(ctx)
	if err != nil {
		return nil, err
	}

	manifest, err := i.locks.LoadManifest(i.dir)
	if err != nil {
		return nil, err
	}
	if root == nil {
		root = &domain.Node{Name: manifest.Name, Version: manifest.Version}
	}

	if lifecycleErr := i.RunLifecycle(ctx, "preinstall"); lifecycleErr != nil {
		return nil, lifecycleErr
	}

	result := &domain.InstallResult{}
	for _, arg := range i.args {
		spec := domain.ParseSpecifier(arg)
		node, resolveErr := i.resolver.Resolve(ctx, spec.Name, spec.Spec)
		if resolveErr != nil {
			return nil, fmt.Errorf("failed to install %s: %w", arg, resolveErr)
		}
		root.AddChild(node)
		result.Packages = append(result.Packages, node.Name+"@"+node.Version)
	}

	if refreshErr := i.resolver.Refresh(ctx, root); refreshErr != nil {
		return nil, refreshErr
	}

	result.Updated = i.resolver.Resolved()
	result.Changed = result.Updated > 0

	if !i.dryRun && result.Changed {
		if saveErr := i.locks.SaveTree(i.dir, root); saveErr != nil {
			return nil, saveErr
		}
	}

	if lifecycleErr := i.RunLifecycle(ctx, "postinstall"); lifecycleErr != nil {
		return nil, lifecycleErr
	}

	return result, nil
}

func (i *Installer) loadBaseTree(_ context.Context) (*domain.Node, error) {
	root, err := i.locks.LoadTree(i.dir)
	if errors.Is(err, domain.ErrLockfileMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return root, nil
}

// runManifestScript runs the named lifecycle script from the manifest, if
// declared, through the shell in the project directory.
func (i *Installer) runManifestScript(ctx context.Context, event string) error {
	manifest, err := i.locks.LoadManifest(i.dir)
	if err != nil {
		return err
	}

	script, ok := manifest.Scripts[event]
	if !ok || script == "" {
		return nil
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", script)
	cmd.Dir = i.dir

	output, runErr := cmd.CombinedOutput()
	logger.Debugf("Output of %s script:\n%s", event, string(output))
	if runErr != nil {
		return fmt.Errorf("%s script failed: %w\nOutput:\n%s", event, runErr, string(output))
	}

	return nil
}
