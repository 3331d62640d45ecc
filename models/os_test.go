package models

import (
	"strings"
	"testing"
)

func TestOSValidate_Variants(t *testing.T) {
	tests := []struct {
		name string
		os   OS
		want []string // empty means valid
	}{
		{
			name: "firmware minimal",
			os:   OS{Variant: "firmware"},
		},
		{
			name: "firmware with loader and nvram",
			os: OS{
				Variant: "firmware",
				Loader:  &OSLoader{Path: "/usr/share/OVMF/OVMF_CODE.fd", ReadOnly: "yes", Type: "pflash"},
				NVRAM:   &OSNVRAM{Path: "/var/lib/libvirt/nvram/vm.fd", Template: "/usr/share/OVMF/OVMF_VARS.fd"},
			},
		},
		{
			name: "firmware rejects kernel",
			os:   OS{Variant: "firmware", Kernel: "/boot/vmlinuz"},
			want: []string{"os.kernel: forbidden"},
		},
		{
			name: "firmware nvram without loader",
			os: OS{
				Variant: "firmware",
				NVRAM:   &OSNVRAM{Path: "/p", Template: "/t"},
			},
			want: []string{"os.nvram: conflict"},
		},
		{
			name: "host bootloader",
			os:   OS{Variant: "host", Bootloader: "/usr/bin/pygrub"},
		},
		{
			name: "host missing bootloader",
			os:   OS{Variant: "host"},
			want: []string{"os.bootloader: required"},
		},
		{
			name: "host rejects loader",
			os: OS{
				Variant:    "host",
				Bootloader: "/usr/bin/pygrub",
				Loader:     &OSLoader{Path: "/x"},
			},
			want: []string{"os.loader: forbidden"},
		},
		{
			name: "direct kernel boot",
			os: OS{
				Variant: "direct",
				Kernel:  "/boot/vmlinuz",
				Initrd:  "/boot/initrd.img",
				Cmdline: "console=ttyS0",
			},
		},
		{
			name: "direct missing kernel",
			os:   OS{Variant: "direct"},
			want: []string{"os.kernel: required"},
		},
		{
			name: "direct loader keeps only path",
			os: OS{
				Variant: "direct",
				Kernel:  "/boot/vmlinuz",
				Loader:  &OSLoader{Path: "/x", Secure: "yes"},
			},
			want: []string{"os.loader: conflict"},
		},
		{
			name: "container init",
			os: OS{
				Variant:  "container",
				Init:     "/sbin/init",
				InitArgs: []string{"--debug"},
				IDMap: &IDMap{
					UID: &IDMapEntry{Target: 100000, Count: 65536},
					GID: &IDMapEntry{Target: 100000, Count: 65536},
				},
			},
		},
		{
			name: "container rejects kernel",
			os:   OS{Variant: "container", Init: "/sbin/init", Kernel: "/boot/vmlinuz"},
			want: []string{"os.kernel: forbidden"},
		},
		{
			name: "container idmap needs both halves",
			os: OS{
				Variant: "container",
				IDMap:   &IDMap{UID: &IDMapEntry{Target: 100000, Count: 65536}},
			},
			want: []string{"os.idmap.gid: required"},
		},
		{
			name: "container idmap zero count",
			os: OS{
				Variant: "container",
				IDMap: &IDMap{
					UID: &IDMapEntry{Target: 100000, Count: 0},
					GID: &IDMapEntry{Target: 100000, Count: 65536},
				},
			},
			want: []string{"os.idmap.uid.count: format"},
		},
		{
			name: "container empty initenv value",
			os: OS{
				Variant: "container",
				InitEnv: map[string]string{"HOME": ""},
			},
			want: []string{"os.initenv: empty"},
		},
		{
			name: "test needs arch",
			os:   OS{Variant: "test"},
			want: []string{"os.arch: required"},
		},
		{
			name: "test with arch",
			os:   OS{Variant: "test", Arch: "x86_64"},
		},
		{
			name: "unknown variant",
			os:   OS{Variant: "bios"},
			want: []string{"os.variant: unknown-variant"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{}
			tt.os.validate(r, "os")

			if len(tt.want) == 0 {
				if !r.Empty() {
					t.Errorf("got violations %v, want none", r.Violations)
				}
				return
			}
			if r.Empty() {
				t.Fatal("got no violations, want some")
			}
			for _, want := range tt.want {
				if !strings.Contains(r.Error(), want) {
					t.Errorf("violations %q, want them to contain %q", r.Error(), want)
				}
			}
		})
	}
}
