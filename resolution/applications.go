package resolution

import (
	"github.com/GlintPay/dockercluster/store"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// DeployedApplications are the applications assigned to the host, in
// declaration order without repeats. Start and stop scripts cover these.
func (r Resolver) DeployedApplications(host store.Host) []string {
	return uniqueNames(r.FetchForHost(host, store.DockerApps, store.Absent()).Strings())
}

// ConfiguredApplications extends the deployed applications with any that only
// have per-application configs or args, e.g. a console used for one-off runs.
func (r Resolver) ConfiguredApplications(host store.Host) []string {
	names := r.FetchForHost(host, store.DockerApps, store.Absent()).Strings()
	names = append(names, r.FetchForHost(host, store.DockerAppConfigs, store.Absent()).Keys()...)
	names = append(names, r.FetchForHost(host, store.DockerAppArgs, store.Absent()).Keys()...)
	return uniqueNames(names)
}

// mappedApplications are the applications whose inline config files are
// shipped to the host: the deployed ones plus every key of the global or host
// application maps.
func (r Resolver) mappedApplications(host store.Host) []string {
	global := r.Store.Global

	names := r.FetchForHost(host, store.DockerApps, store.Absent()).Strings()
	names = append(names, global.Lookup(store.DockerAppConfigs).Keys()...)
	names = append(names, host.Lookup(store.DockerAppConfigs).Keys()...)
	names = append(names, global.Lookup(store.DockerAppArgs).Keys()...)
	names = append(names, host.Lookup(store.DockerAppArgs).Keys()...)
	return uniqueNames(names)
}

func uniqueNames(names []string) []string {
	set := linkedhashset.New()
	for _, each := range names {
		set.Add(each)
	}

	unique := make([]string, 0, set.Size())
	for _, each := range set.Values() {
		unique = append(unique, each.(string))
	}
	return unique
}
