package nsmanager

import (
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"

	fire "github.com/fire-runtime/fire"
)

// BringUpLoopback enables the loopback device inside the network
// namespace associated with pid. A fresh CLONE_NEWNET namespace starts
// with "lo" present but down; most container workloads assume
// localhost works, so fire brings it up the way runtimes generally do
// for "network": {} with no further configuration.
func BringUpLoopback(pid int) error {
	ns, err := netns.GetFromPid(pid)
	if err != nil {
		return fire.NewError(fire.KindNamespaceFailed, "nsmanager.BringUpLoopback", "", err)
	}
	defer ns.Close()

	handle, err := netlink.NewHandleAt(ns)
	if err != nil {
		return fire.NewError(fire.KindNamespaceFailed, "nsmanager.BringUpLoopback", "", err)
	}
	defer handle.Close()

	link, err := handle.LinkByName("lo")
	if err != nil {
		return fire.NewError(fire.KindNamespaceFailed, "nsmanager.BringUpLoopback", "lo", err)
	}
	if err := handle.LinkSetUp(link); err != nil {
		return fire.NewError(fire.KindNamespaceFailed, "nsmanager.BringUpLoopback", "lo", err)
	}
	return nil
}
