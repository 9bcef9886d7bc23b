// Package gen generates static delegate adapters: for an interface I it emits
// an IProxy type that implements I on top of a *proxy.Proxy, forwarding every
// method the delegate implements and answering the others with defaults.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/types"
	"sort"
	"strings"

	"github.com/anoideaopen/delegate/core/stringsx"
	"golang.org/x/tools/go/packages"
)

// Errors returned by Generate.
var (
	ErrNoPackages       = errors.New("pattern matched no packages")
	ErrManyPackages     = errors.New("pattern matched more than one package")
	ErrTypeNotFound     = errors.New("type not found")
	ErrNotInterface     = errors.New("type is not a method set interface")
	ErrGenericInterface = errors.New("generic interfaces are not supported")
	ErrUnexportedMethod = errors.New("unexported method cannot be implemented from another package")
)

const proxyImport = "github.com/anoideaopen/delegate/core/proxy"

// Config selects the interfaces to generate adapters for.
type Config struct {
	// Dir is the directory the pattern is resolved in.
	Dir string
	// Pattern names a single package, e.g. "." or "./api".
	Pattern string
	// Types lists interface names. All exported interfaces are used when empty.
	Types []string
	// Package is the name of the generated package. Defaults to the source package,
	// in which case source types are not qualified.
	Package string
}

type adapter struct {
	Name      string
	Recv      string
	Qualified string
	Methods   []method
}

type method struct {
	Name    string
	Params  string
	Types   string
	Args    string
	Results string
	First   string
	Rest    []string
}

type file struct {
	Package  string
	Imports  []string
	Adapters []adapter
}

// Generate loads the package and returns the formatted source of the adapters.
func Generate(cfg Config) ([]byte, error) {
	pkg, err := load(cfg)
	if err != nil {
		return nil, err
	}

	out := file{Package: cfg.Package}
	if out.Package == "" {
		out.Package = pkg.Name
	}

	imports := map[string]string{proxyImport: "proxy"}
	external := out.Package != pkg.Name

	qualifier := func(p *types.Package) string {
		if p == pkg.Types && !external {
			return ""
		}

		imports[p.Path()] = p.Name()

		return p.Name()
	}

	names, err := selectInterfaces(pkg.Types, cfg.Types)
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		obj := pkg.Types.Scope().Lookup(name)

		a, err := build(obj.(*types.TypeName), qualifier, external) //nolint:forcetypeassert
		if err != nil {
			return nil, err
		}

		out.Adapters = append(out.Adapters, a)
	}

	reserved := make([]string, 0, len(imports))
	for path, name := range imports {
		out.Imports = append(out.Imports, path)
		reserved = append(reserved, name)
	}
	sort.Strings(out.Imports)

	for i := range out.Adapters {
		out.Adapters[i].Recv = receiverName(out.Adapters[i].Name, reserved...)
	}

	var buf bytes.Buffer
	if err = fileTemplate.Execute(&buf, out); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}

	return src, nil
}

func load(cfg Config) (*packages.Package, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "."
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
		Dir:  cfg.Dir,
	}, pattern)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", pattern, err)
	}

	switch len(pkgs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, pattern)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s", ErrManyPackages, pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		msgs := make([]string, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			msgs = append(msgs, e.Error())
		}

		return nil, fmt.Errorf("load %s: %s", pattern, strings.Join(msgs, "; "))
	}

	return pkg, nil
}

func selectInterfaces(pkg *types.Package, requested []string) ([]string, error) {
	scope := pkg.Scope()

	if len(requested) == 0 {
		var names []string
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !tn.Exported() || tn.IsAlias() {
				continue
			}

			if checkInterface(tn) == nil {
				names = append(names, name)
			}
		}

		return names, nil
	}

	for _, name := range requested {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrTypeNotFound, pkg.Path(), name)
		}

		if err := checkInterface(tn); err != nil {
			return nil, err
		}
	}

	return requested, nil
}

func checkInterface(tn *types.TypeName) error {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInterface, tn.Name())
	}

	iface, ok := named.Underlying().(*types.Interface)
	if !ok || !iface.IsMethodSet() {
		return fmt.Errorf("%w: %s", ErrNotInterface, tn.Name())
	}

	if named.TypeParams().Len() > 0 {
		return fmt.Errorf("%w: %s", ErrGenericInterface, tn.Name())
	}

	return nil
}

func build(tn *types.TypeName, qualifier types.Qualifier, external bool) (adapter, error) {
	iface := tn.Type().Underlying().(*types.Interface) //nolint:forcetypeassert

	a := adapter{
		Name:      tn.Name(),
		Qualified: types.TypeString(tn.Type(), qualifier),
	}

	for i := 0; i < iface.NumMethods(); i++ {
		fn := iface.Method(i)
		if external && !fn.Exported() {
			return adapter{}, fmt.Errorf("%w: %s.%s", ErrUnexportedMethod, tn.Name(), fn.Name())
		}

		a.Methods = append(a.Methods, buildMethod(fn, qualifier))
	}

	return a, nil
}

func buildMethod(fn *types.Func, qualifier types.Qualifier) method {
	sig := fn.Type().(*types.Signature) //nolint:forcetypeassert

	var (
		params = make([]string, 0, sig.Params().Len())
		ptypes = make([]string, 0, sig.Params().Len())
		args   = make([]string, 0, sig.Params().Len())
	)

	for i := 0; i < sig.Params().Len(); i++ {
		var (
			name = fmt.Sprintf("arg%d", i)
			typ  = sig.Params().At(i).Type()
			ts   string
		)

		if sig.Variadic() && i == sig.Params().Len()-1 {
			ts = "..." + types.TypeString(typ.(*types.Slice).Elem(), qualifier) //nolint:forcetypeassert
			name += "..."
			params = append(params, fmt.Sprintf("arg%d %s", i, ts))
		} else {
			ts = types.TypeString(typ, qualifier)
			params = append(params, name+" "+ts)
		}

		ptypes = append(ptypes, ts)
		args = append(args, name)
	}

	m := method{
		Name:   fn.Name(),
		Params: strings.Join(params, ", "),
		Types:  strings.Join(ptypes, ", "),
		Args:   strings.Join(args, ", "),
	}

	results := sig.Results()
	if results.Len() == 0 {
		return m
	}

	rtypes := make([]string, 0, results.Len())
	for i := 0; i < results.Len(); i++ {
		rtypes = append(rtypes, types.TypeString(results.At(i).Type(), qualifier))
	}

	m.First, m.Rest = rtypes[0], rtypes[1:]
	m.Results = rtypes[0]
	if len(rtypes) > 1 {
		m.Results = "(" + strings.Join(rtypes, ", ") + ")"
	}

	return m
}

// receiverName returns the receiver identifier of the adapter of the interface.
// It never shadows an imported package name, a predeclared identifier or the
// locals of the generated methods.
func receiverName(iface string, reserved ...string) string {
	recv := stringsx.LowerFirstChar(iface)
	if stringsx.OneOf(recv, append(reserved, "impl", "ok")...) ||
		strings.HasPrefix(recv, "arg") ||
		types.Universe.Lookup(recv) != nil {
		recv += "Proxy"
	}

	return recv
}
