package fs

import (
	"fmt"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

type blkioGroup struct{}

func (s *blkioGroup) name() string { return "blkio" }

func (s *blkioGroup) set(dir string, r *specs.LinuxResources) error {
	if r == nil || r.BlockIO == nil {
		return nil
	}
	b := r.BlockIO
	if b.Weight != nil {
		if err := writeFileInt(dir, "blkio.weight", int64(*b.Weight)); err != nil {
			return err
		}
	}
	if b.LeafWeight != nil {
		if err := writeFileInt(dir, "blkio.leaf_weight", int64(*b.LeafWeight)); err != nil {
			return err
		}
	}
	for _, dev := range b.ThrottleReadBpsDevice {
		if err := writeFile(dir, "blkio.throttle.read_bps_device", throttleLine(dev)); err != nil {
			return err
		}
	}
	for _, dev := range b.ThrottleWriteBpsDevice {
		if err := writeFile(dir, "blkio.throttle.write_bps_device", throttleLine(dev)); err != nil {
			return err
		}
	}
	return nil
}

func (s *blkioGroup) requested(r *specs.LinuxResources) bool {
	return r != nil && r.BlockIO != nil
}

func throttleLine(dev specs.LinuxThrottleDevice) string {
	return fmt.Sprintf("%d:%d %d", dev.Major, dev.Minor, dev.Rate)
}
