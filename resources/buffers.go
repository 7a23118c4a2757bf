// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package resources

import (
	"reflect"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

// DeviceDTypes are the dtypes supported for accelerator buffers.
var DeviceDTypes = []dtypes.DType{dtypes.Float64, dtypes.Float32, dtypes.Float16, dtypes.BFloat16}

// bufferPools recycles device flat slices, with one sync.Pool per (dtype, length).
type bufferPools struct {
	pools sync.Map
}

type bufferPoolKey struct {
	dtype  dtypes.DType
	length int
}

// getPool for given dtype/length.
func (b *bufferPools) getPool(dtype dtypes.DType, length int) *sync.Pool {
	key := bufferPoolKey{dtype: dtype, length: length}
	poolInterface, ok := b.pools.Load(key)
	if !ok {
		poolInterface, _ = b.pools.LoadOrStore(key, &sync.Pool{
			New: func() any {
				return reflect.MakeSlice(reflect.SliceOf(dtype.GoType()), length, length).Interface()
			},
		})
	}
	return poolInterface.(*sync.Pool)
}

// get a zeroed flat slice of the dtype.
func (b *bufferPools) get(dtype dtypes.DType, length int) any {
	flat := b.getPool(dtype, length).Get()
	clearFlat(flat)
	return flat
}

// put the flat slice back into its pool. After this any references to flat should be dropped.
func (b *bufferPools) put(dtype dtypes.DType, flat any) {
	if flat == nil {
		return
	}
	length := reflect.ValueOf(flat).Len()
	b.getPool(dtype, length).Put(flat)
}

func clearFlat(flat any) {
	switch f := flat.(type) {
	case []float64:
		clear(f)
	case []float32:
		clear(f)
	case []float16.Float16:
		clear(f)
	case []bfloat16.BFloat16:
		clear(f)
	default:
		exceptions.Panicf("resources: unsupported device buffer type %T", flat)
	}
}

// hostToDevice converts the host float64 values to the device flat slice, of the same length.
func hostToDevice(dst any, src []float64) {
	switch d := dst.(type) {
	case []float64:
		copy(d, src)
	case []float32:
		for i, v := range src {
			d[i] = float32(v)
		}
	case []float16.Float16:
		for i, v := range src {
			d[i] = float16.Fromfloat32(float32(v))
		}
	case []bfloat16.BFloat16:
		for i, v := range src {
			d[i] = bfloat16.FromFloat32(float32(v))
		}
	default:
		exceptions.Panicf("resources: unsupported device buffer type %T", dst)
	}
}

// deviceToHost converts the device flat slice to host float64 values, of the same length.
func deviceToHost(dst []float64, src any) {
	switch s := src.(type) {
	case []float64:
		copy(dst, s)
	case []float32:
		for i, v := range s {
			dst[i] = float64(v)
		}
	case []float16.Float16:
		for i, v := range s {
			dst[i] = float64(v.Float32())
		}
	case []bfloat16.BFloat16:
		for i, v := range s {
			dst[i] = float64(v.Float32())
		}
	default:
		exceptions.Panicf("resources: unsupported device buffer type %T", src)
	}
}
