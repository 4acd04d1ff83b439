// Copyright (c) 2023, The vgfx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/amerkoleci/vgfx"
)

// QueryHeap wraps a query pool.
type QueryHeap struct {
	vgfx.RefCount
	dev   *Device
	pool  vk.QueryPool
	typ   vgfx.QueryType
	count uint32
	label string
}

func (dv *Device) CreateQueryHeap(desc *vgfx.QueryHeapDesc) vgfx.QueryHeap {
	qt := vk.QueryTypeOcclusion
	if desc.Type == vgfx.QueryTimestamp {
		qt = vk.QueryTypeTimestamp
	}
	var pool vk.QueryPool
	ret := vk.CreateQueryPool(dv.Dev, &vk.QueryPoolCreateInfo{
		SType:      vk.StructureTypeQueryPoolCreateInfo,
		QueryType:  qt,
		QueryCount: desc.Count,
	}, nil, &pool)
	if err := NewError(ret); err != nil {
		vgfx.Logf(vgfx.LogError, "CreateQueryHeap: %v", err)
		return nil
	}
	qh := &QueryHeap{dev: dv, pool: pool, typ: desc.Type, count: desc.Count, label: desc.Label}
	qh.InitRef()
	return qh
}

func (qh *QueryHeap) Type() vgfx.QueryType { return qh.typ }
func (qh *QueryHeap) Count() uint32        { return qh.count }

func (qh *QueryHeap) SetLabel(label string) { qh.label = label }

func (qh *QueryHeap) AddRef() int32 { return qh.RefCount.AddRef() }

func (qh *QueryHeap) Release() int32 {
	refs := qh.DecRef()
	if refs == 0 {
		qh.destroy()
	}
	return refs
}

func (qh *QueryHeap) destroy() {
	dv := qh.dev
	if qh.pool != vk.NullQueryPool {
		if dv.isShuttingDown() {
			vk.DestroyQueryPool(dv.Dev, qh.pool, nil)
		} else {
			dv.dqQueryPools.Push(qh.pool, dv.pacer.FrameCount())
		}
		qh.pool = vk.NullQueryPool
	}
}
