package compiler

import (
	"fmt"
	"time"

	"github.com/achilleasa/gridtrace/asset"
	"github.com/achilleasa/gridtrace/asset/compiler/input"
	"github.com/achilleasa/gridtrace/asset/texture"
	"github.com/achilleasa/gridtrace/log"
	"github.com/achilleasa/gridtrace/scene"
	"github.com/achilleasa/gridtrace/types"
)

type sceneCompiler struct {
	parsedScene *input.Scene
	logger      log.Logger

	// Compiled materials indexed by the parsed material index.
	materials []*scene.Material

	// A map of a texture path to its decoded texture. This cache allows us
	// to re-use already loaded textures when referenced by multiple materials.
	texCache map[string]*texture.Texture
}

// Compile a scene representation parsed by a scene reader into an immutable
// render-ready scene. Mesh instances are baked into world space and each
// mesh is split into one scene mesh per referenced material.
func Compile(parsedScene *input.Scene) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		logger:      log.New("scene compiler"),
		texCache:    make(map[string]*texture.Texture),
	}

	start := time.Now()
	compiler.logger.Noticef("compiling scene")

	err := compiler.compileMaterials()
	if err != nil {
		return nil, err
	}

	meshes, err := compiler.bakeGeometry()
	if err != nil {
		return nil, err
	}

	sc := scene.New(meshes, parsedScene.Lights, compiler.setupCamera())
	compiler.logger.Noticef("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return sc, nil
}

func (sc *sceneCompiler) compileMaterials() error {
	start := time.Now()
	sc.logger.Noticef("processing %d materials", len(sc.parsedScene.Materials))

	sc.materials = make([]*scene.Material, len(sc.parsedScene.Materials))
	for matIndex, mat := range sc.parsedScene.Materials {
		sc.logger.Infof(`processing material "%s"`, mat.Name)

		compiled := &scene.Material{
			Name:      mat.Name,
			Ambient:   mat.Ambient,
			Diffuse:   mat.Diffuse,
			Specular:  mat.Specular,
			Shininess: mat.Shininess,
		}

		if mat.DiffuseTex != "" && mat.Used {
			tex, err := sc.loadTexture(mat, mat.DiffuseTex)
			if err != nil {
				return err
			}
			compiled.Texture = tex
		}

		sc.materials[matIndex] = compiled
	}

	sc.logger.Noticef("processed %d materials in %d ms", len(sc.parsedScene.Materials), time.Since(start).Nanoseconds()/1e6)
	return nil
}

// Load a texture relative to the material library that references it.
func (sc *sceneCompiler) loadTexture(mat *input.Material, texPath string) (*texture.Texture, error) {
	res, err := asset.NewResource(texPath, mat.AssetRelPath)
	if err != nil {
		return nil, fmt.Errorf("material %q: %v", mat.Name, err)
	}
	defer res.Close()

	if tex, exists := sc.texCache[res.Path()]; exists {
		return tex, nil
	}

	sc.logger.Infof("loading texture: %s", res.Path())
	tex, err := texture.New(res)
	if err != nil {
		return nil, fmt.Errorf("material %q: %v", mat.Name, err)
	}

	sc.texCache[res.Path()] = tex
	return tex, nil
}

// Transform every mesh instance into world space.
func (sc *sceneCompiler) bakeGeometry() ([]*scene.Mesh, error) {
	start := time.Now()
	sc.logger.Infof("baking %d mesh instances (%d meshes)", len(sc.parsedScene.MeshInstances), len(sc.parsedScene.Meshes))

	meshes := make([]*scene.Mesh, 0)
	for _, mi := range sc.parsedScene.MeshInstances {
		if int(mi.MeshIndex) >= len(sc.parsedScene.Meshes) {
			return nil, fmt.Errorf("scene compiler: mesh instance references unknown mesh %d", mi.MeshIndex)
		}
		pm := sc.parsedScene.Meshes[mi.MeshIndex]
		normalMat := mi.Transform.NormalMat()

		// Group faces by material preserving the order in which materials appear
		var matOrder []int
		facesByMat := make(map[int][]scene.Face)
		for _, prim := range pm.Primitives {
			if prim.MaterialIndex < 0 || prim.MaterialIndex >= len(sc.materials) {
				return nil, fmt.Errorf("scene compiler: mesh %q references unknown material %d", pm.Name, prim.MaterialIndex)
			}

			face := scene.Face{UVs: prim.UVs, HasUV: prim.HasUV}
			for i := 0; i < 3; i++ {
				face.Vertices[i] = mi.Transform.TransformPoint(prim.Vertices[i])
				face.Normals[i] = normalMat.TransformDir(prim.Normals[i]).Normalize()
			}

			if _, seen := facesByMat[prim.MaterialIndex]; !seen {
				matOrder = append(matOrder, prim.MaterialIndex)
			}
			facesByMat[prim.MaterialIndex] = append(facesByMat[prim.MaterialIndex], face)
		}

		for _, matIndex := range matOrder {
			name := pm.Name
			if len(matOrder) > 1 {
				name = fmt.Sprintf("%s/%s", pm.Name, sc.materials[matIndex].Name)
			}
			meshes = append(meshes, scene.NewMesh(name, facesByMat[matIndex], sc.materials[matIndex]))
		}
	}

	sc.logger.Noticef("baked geometry into %d meshes in %d ms", len(meshes), time.Since(start).Nanoseconds()/1e6)
	return meshes, nil
}

// Initialize and position the camera for the scene.
func (sc *sceneCompiler) setupCamera() *scene.Camera {
	parsed := sc.parsedScene.Camera

	camera := scene.NewCamera()
	camera.Eye = parsed.Eye
	camera.UpDir = parsed.Up.Normalize()
	camera.LookAt(parsed.Look)
	camera.Perspective = !parsed.Ortho
	if parsed.FocalLength > 0 {
		camera.FocalLength = parsed.FocalLength
	}
	if parsed.FilmWidth > 0 {
		camera.FilmWidth = parsed.FilmWidth
	}

	if camera.UpDir == (types.Vec3{}) {
		sc.logger.Warning("camera up vector is zero; using +Y")
		camera.UpDir = types.Vec3{0, 1, 0}
	}

	return camera
}
