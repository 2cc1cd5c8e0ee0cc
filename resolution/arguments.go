package resolution

import (
	"fmt"
	"path"

	"github.com/GlintPay/dockercluster/store"
)

// ConfigDirectory is where uploaded config files live relative to the
// scripts' working directory.
const ConfigDirectory = "config"

// Arguments returns the launch arguments of an application on a host.
//
// Every scope contributes, broadest first: global, global per application,
// host, host per application. Config files precede free-form args within
// each scope. Nothing is overridden, only exact duplicates are dropped, and
// the first occurrence keeps its position.
func (r Resolver) Arguments(application string, host store.Host) []string {
	global := r.Store.Global

	groups := [][]string{
		ConfigArgs(global.Lookup(store.DockerConfigs)),
		global.Lookup(store.DockerArgs).Strings(),
		ConfigArgs(global.Lookup(store.DockerAppConfigs).ForApplication(application)),
		ConfigArgs(global.ApplicationProperty(store.DockerAppConfigs, application)),
		global.Lookup(store.DockerAppArgs).ForApplication(application).Strings(),
		global.ApplicationProperty(store.DockerAppArgs, application).Strings(),

		ConfigArgs(host.Lookup(store.DockerConfigs)),
		host.Lookup(store.DockerArgs).Strings(),
		ConfigArgs(host.Lookup(store.DockerAppConfigs).ForApplication(application)),
		ConfigArgs(host.ApplicationProperty(store.DockerAppConfigs, application)),
		host.Lookup(store.DockerAppArgs).ForApplication(application).Strings(),
		host.ApplicationProperty(store.DockerAppArgs, application).Strings(),
	}

	var args []string
	for _, group := range groups {
		args = append(args, group...)
	}
	return uniqueNames(args)
}

// ConfigArgs turns config file paths into `--config` arguments that refer to
// the uploaded copy of each file.
func ConfigArgs(paths store.Value) []string {
	var args []string
	for _, each := range paths.Strings() {
		args = append(args, fmt.Sprintf("--config '%s/%s'", ConfigDirectory, BaseName(each)))
	}
	return args
}

// BaseName strips the directory part of a config path. Both the upload map and
// the `--config` arguments key files by this name.
func BaseName(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}
