package pof

import (
	"github.com/wcsaga/forge/internal/domain/diag"
	"github.com/wcsaga/forge/internal/domain/entities"
	"github.com/wcsaga/forge/internal/infrastructure/binaryio"
)

// decodeHeader decodes HDR2. The trailing physics and light tables are
// optional; they are read only while bytes remain in the chunk.
func decodeHeader(model *entities.ModelData, r *binaryio.Reader, payloadLen int) error {
	h := &model.Header
	var err error

	if h.MaxRadius, err = r.ReadF32(); err != nil {
		return err
	}
	if h.Flags, err = r.ReadU32(); err != nil {
		return err
	}
	if h.NumSubobjects, err = r.ReadI32(); err != nil {
		return err
	}
	if h.MinBounding, err = r.ReadVector3(); err != nil {
		return err
	}
	if h.MaxBounding, err = r.ReadVector3(); err != nil {
		return err
	}
	for i := range h.DetailLevels {
		if h.DetailLevels[i], err = r.ReadI32(); err != nil {
			return err
		}
	}
	for i := range h.DebrisPieces {
		if h.DebrisPieces[i], err = r.ReadI32(); err != nil {
			return err
		}
	}

	remaining := func() int64 { return int64(payloadLen) - r.Tell() }

	if remaining() >= 4 {
		if h.Mass, err = r.ReadF32(); err != nil {
			return err
		}
	}
	if remaining() >= 12 {
		if h.MassCenter, err = r.ReadVector3(); err != nil {
			return err
		}
	}
	if remaining() >= 36 {
		if h.MomentInertia, err = r.ReadMatrix3x3(); err != nil {
			return err
		}
	}
	if remaining() >= 4 {
		count, err := r.ReadI32()
		if err != nil {
			return err
		}
		if count > 0 && int64(count)*8 <= remaining() {
			h.CrossSections = make([]entities.CrossSection, 0, count)
			for i := int32(0); i < count; i++ {
				var cs entities.CrossSection
				if cs.Depth, err = r.ReadF32(); err != nil {
					return err
				}
				if cs.Radius, err = r.ReadF32(); err != nil {
					return err
				}
				h.CrossSections = append(h.CrossSections, cs)
			}
		}
	}
	if remaining() >= 4 {
		count, err := r.ReadI32()
		if err != nil {
			return err
		}
		if count > 0 && int64(count)*16 <= remaining() {
			h.Lights = make([]entities.ModelLight, 0, count)
			for i := int32(0); i < count; i++ {
				var l entities.ModelLight
				if l.Position, err = r.ReadVector3(); err != nil {
					return err
				}
				if l.Type, err = r.ReadI32(); err != nil {
					return err
				}
				h.Lights = append(h.Lights, l)
			}
		}
	}
	return nil
}

// decodeSubObject decodes OBJ2. Whatever bytes remain after the fixed fields
// are the embedded BSP tree, kept opaque for the model conversion stage.
func decodeSubObject(model *entities.ModelData, r *binaryio.Reader, payloadLen int) error {
	var so entities.SubObject
	var err error

	if so.Index, err = r.ReadI32(); err != nil {
		return err
	}
	if so.Radius, err = r.ReadF32(); err != nil {
		return err
	}
	if so.Parent, err = r.ReadI32(); err != nil {
		return err
	}
	if so.Offset, err = r.ReadVector3(); err != nil {
		return err
	}
	if so.GeometricCenter, err = r.ReadVector3(); err != nil {
		return err
	}
	if so.BoundingMin, err = r.ReadVector3(); err != nil {
		return err
	}
	if so.BoundingMax, err = r.ReadVector3(); err != nil {
		return err
	}
	if so.Name, err = r.ReadString(maxNameLen); err != nil {
		return err
	}
	if so.Properties, err = r.ReadString(maxPropLen); err != nil {
		return err
	}
	if so.MovementType, err = r.ReadI32(); err != nil {
		return err
	}
	if so.MovementAxis, err = r.ReadI32(); err != nil {
		return err
	}

	if rest := int64(payloadLen) - r.Tell(); rest > 0 {
		so.BSPData, err = r.ReadBytes(int(rest))
		if err != nil {
			return err
		}
		so.BSPSize = len(so.BSPData)
	}

	model.SubObjects = append(model.SubObjects, so)
	return nil
}

func decodeTextures(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	// count = 0 is a legal empty texture list.
	model.Textures = make([]string, 0, max(count, 0))
	for i := int32(0); i < count; i++ {
		name, err := r.ReadString(maxNameLen)
		if err != nil {
			return err
		}
		model.Textures = append(model.Textures, name)
	}
	return nil
}

func decodeSpecialPoints(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var sp entities.SpecialPoint
		if sp.Name, err = r.ReadString(maxNameLen); err != nil {
			return err
		}
		if sp.Properties, err = r.ReadString(maxPropLen); err != nil {
			return err
		}
		if sp.Position, err = r.ReadVector3(); err != nil {
			return err
		}
		if sp.Radius, err = r.ReadF32(); err != nil {
			return err
		}
		model.SpecialPoints = append(model.SpecialPoints, sp)
	}
	return nil
}

func decodePaths(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var path entities.ModelPath
		if path.Name, err = r.ReadString(maxNameLen); err != nil {
			return err
		}
		if path.Parent, err = r.ReadString(maxNameLen); err != nil {
			return err
		}
		nverts, err := r.ReadI32()
		if err != nil {
			return err
		}
		for v := int32(0); v < nverts; v++ {
			var vert entities.PathVertex
			if vert.Position, err = r.ReadVector3(); err != nil {
				return err
			}
			if vert.Radius, err = r.ReadF32(); err != nil {
				return err
			}
			nturrets, err := r.ReadI32()
			if err != nil {
				return err
			}
			for t := int32(0); t < nturrets; t++ {
				id, err := r.ReadI32()
				if err != nil {
					return err
				}
				vert.TurretID = append(vert.TurretID, id)
			}
			path.Vertices = append(path.Vertices, vert)
		}
		model.Paths = append(model.Paths, path)
	}
	return nil
}

func decodeWeaponBanks(r *binaryio.Reader) ([]entities.WeaponBank, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	var banks []entities.WeaponBank
	for i := int32(0); i < count; i++ {
		nslots, err := r.ReadI32()
		if err != nil {
			return banks, err
		}
		var bank entities.WeaponBank
		for s := int32(0); s < nslots; s++ {
			var slot entities.WeaponSlot
			if slot.Position, err = r.ReadVector3(); err != nil {
				return banks, err
			}
			if slot.Normal, err = r.ReadVector3(); err != nil {
				return banks, err
			}
			bank.Slots = append(bank.Slots, slot)
		}
		banks = append(banks, bank)
	}
	return banks, nil
}

// decodeDockPoints decodes DOCK. The on-disk format always stores exactly
// two slot pairs; a declared slot count other than 2 keeps only the pairs
// actually declared and records a warning.
func decodeDockPoints(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var dock entities.DockPoint
		if dock.Properties, err = r.ReadString(maxPropLen); err != nil {
			return err
		}
		npaths, err := r.ReadI32()
		if err != nil {
			return err
		}
		for p := int32(0); p < npaths; p++ {
			idx, err := r.ReadI32()
			if err != nil {
				return err
			}
			dock.SplinePath = append(dock.SplinePath, idx)
		}
		nslots, err := r.ReadI32()
		if err != nil {
			return err
		}
		var fixed [2]entities.WeaponSlot
		for s := 0; s < 2; s++ {
			if fixed[s].Position, err = r.ReadVector3(); err != nil {
				return err
			}
			if fixed[s].Normal, err = r.ReadVector3(); err != nil {
				return err
			}
		}
		keep := int(nslots)
		if keep < 0 {
			keep = 0
		}
		if keep > 2 {
			keep = 2
		}
		if nslots != 2 {
			r.Diagnostics().Warnf(diag.CategoryValidation,
				"dock point %d declares %d slots, format stores 2; keeping %d", i, nslots, keep)
		}
		dock.Slots = append(dock.Slots, fixed[:keep]...)
		model.DockPoints = append(model.DockPoints, dock)
	}
	return nil
}

func decodeThrusters(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var thr entities.Thruster
		npoints, err := r.ReadI32()
		if err != nil {
			return err
		}
		if thr.Properties, err = r.ReadString(maxPropLen); err != nil {
			return err
		}
		for p := int32(0); p < npoints; p++ {
			var pt entities.ThrusterPoint
			if pt.Position, err = r.ReadVector3(); err != nil {
				return err
			}
			if pt.Normal, err = r.ReadVector3(); err != nil {
				return err
			}
			if pt.Radius, err = r.ReadF32(); err != nil {
				return err
			}
			thr.Points = append(thr.Points, pt)
		}
		model.Thrusters = append(model.Thrusters, thr)
	}
	return nil
}

// decodeShield decodes SHLD. Faces with out-of-range vertex or neighbor
// indices are dropped with an error diagnostic; the mesh keeps the rest.
func decodeShield(model *entities.ModelData, r *binaryio.Reader) error {
	nverts, err := r.ReadI32()
	if err != nil {
		return err
	}
	mesh := &entities.ShieldMesh{}
	for i := int32(0); i < nverts; i++ {
		v, err := r.ReadVector3()
		if err != nil {
			return err
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}
	ntris, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < ntris; i++ {
		var face entities.ShieldFace
		if face.Normal, err = r.ReadVector3(); err != nil {
			return err
		}
		valid := true
		for v := 0; v < 3; v++ {
			if face.Vertices[v], err = r.ReadI32(); err != nil {
				return err
			}
			if face.Vertices[v] < 0 || face.Vertices[v] >= nverts {
				valid = false
			}
		}
		for n := 0; n < 3; n++ {
			if face.Neighbors[n], err = r.ReadI32(); err != nil {
				return err
			}
			if face.Neighbors[n] < -1 || face.Neighbors[n] >= ntris {
				valid = false
			}
		}
		if !valid {
			r.Diagnostics().Errorf(diag.CategoryValidation,
				"shield face %d references out-of-range index (verts=%d tris=%d), dropped", i, nverts, ntris)
			continue
		}
		mesh.Faces = append(mesh.Faces, face)
	}
	model.Shield = mesh
	return nil
}

func decodeEyePoints(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var eye entities.EyePoint
		if eye.Parent, err = r.ReadI32(); err != nil {
			return err
		}
		if eye.Position, err = r.ReadVector3(); err != nil {
			return err
		}
		if eye.Normal, err = r.ReadVector3(); err != nil {
			return err
		}
		model.EyePoints = append(model.EyePoints, eye)
	}
	return nil
}

// decodeInsignia decodes INSG. Faces referencing out-of-range vertices are
// dropped with an error diagnostic.
func decodeInsignia(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var ins entities.Insignia
		if ins.LOD, err = r.ReadI32(); err != nil {
			return err
		}
		nfaces, err := r.ReadI32()
		if err != nil {
			return err
		}
		nverts, err := r.ReadI32()
		if err != nil {
			return err
		}
		for v := int32(0); v < nverts; v++ {
			vert, err := r.ReadVector3()
			if err != nil {
				return err
			}
			ins.Vertices = append(ins.Vertices, vert)
		}
		if ins.Offset, err = r.ReadVector3(); err != nil {
			return err
		}
		for f := int32(0); f < nfaces; f++ {
			var face entities.InsigniaFace
			valid := true
			for c := 0; c < 3; c++ {
				if face.Vertices[c], err = r.ReadI32(); err != nil {
					return err
				}
				if face.UVs[c][0], err = r.ReadF32(); err != nil {
					return err
				}
				if face.UVs[c][1], err = r.ReadF32(); err != nil {
					return err
				}
				if face.Vertices[c] < 0 || face.Vertices[c] >= nverts {
					valid = false
				}
			}
			if !valid {
				r.Diagnostics().Errorf(diag.CategoryValidation,
					"insignia %d face %d references out-of-range vertex, dropped", i, f)
				continue
			}
			ins.Faces = append(ins.Faces, face)
		}
		model.Insignia = append(model.Insignia, ins)
	}
	return nil
}

func decodeAutoCenter(model *entities.ModelData, r *binaryio.Reader) error {
	v, err := r.ReadVector3()
	if err != nil {
		return err
	}
	model.AutoCenter = &v
	return nil
}

func decodeGlowBanks(model *entities.ModelData, r *binaryio.Reader) error {
	count, err := r.ReadI32()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		var bank entities.GlowBank
		if bank.DisplacementTime, err = r.ReadI32(); err != nil {
			return err
		}
		if bank.OnTime, err = r.ReadI32(); err != nil {
			return err
		}
		if bank.OffTime, err = r.ReadI32(); err != nil {
			return err
		}
		if bank.Parent, err = r.ReadI32(); err != nil {
			return err
		}
		if bank.LOD, err = r.ReadI32(); err != nil {
			return err
		}
		if bank.Type, err = r.ReadI32(); err != nil {
			return err
		}
		npoints, err := r.ReadI32()
		if err != nil {
			return err
		}
		if bank.Properties, err = r.ReadString(maxPropLen); err != nil {
			return err
		}
		for p := int32(0); p < npoints; p++ {
			var pt entities.GlowPoint
			if pt.Position, err = r.ReadVector3(); err != nil {
				return err
			}
			if pt.Normal, err = r.ReadVector3(); err != nil {
				return err
			}
			if pt.Radius, err = r.ReadF32(); err != nil {
				return err
			}
			bank.Points = append(bank.Points, pt)
		}
		model.GlowBanks = append(model.GlowBanks, bank)
	}
	return nil
}
