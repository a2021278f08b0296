package geom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrMalformedOBJ = errors.New("malformed OBJ")

// LoadOBJFile reads a Wavefront OBJ file.
func LoadOBJFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()
	return LoadOBJ(f)
}

// LoadOBJ reads the vertex positions and faces of a Wavefront OBJ stream.
// Polygons are fan-triangulated. Each "o" or "g" statement starts a new
// group. Texture coordinates, normals and materials are ignored.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	var (
		verts []mgl32.Vec3
		mesh  = &Mesh{}
		line  int
	)

	closeGroup := func() {
		if n := len(mesh.Groups); n > 0 {
			g := &mesh.Groups[n-1]
			g.Count = len(mesh.Triangles) - g.First
		}
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates: %w", line, ErrMalformedOBJ)
			}
			var v mgl32.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformedOBJ)
				}
				v[i] = float32(f)
			}
			verts = append(verts, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs 3 vertices: %w", line, ErrMalformedOBJ)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				i, err := faceIndex(ref, len(verts))
				if err != nil {
					return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrMalformedOBJ)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				mesh.Triangles = append(mesh.Triangles, Triangle{
					A: verts[idx[0]],
					B: verts[idx[k]],
					C: verts[idx[k+1]],
				})
			}

		case "o", "g":
			closeGroup()
			name := strings.Join(fields[1:], " ")
			mesh.Groups = append(mesh.Groups, Group{Name: name, First: len(mesh.Triangles)})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	closeGroup()
	return mesh, nil
}

// faceIndex resolves a face vertex reference such as "3", "3/1" or "-1//2"
// to a zero-based vertex index.
func faceIndex(ref string, count int) (int, error) {
	head, _, _ := strings.Cut(ref, "/")
	i, err := strconv.Atoi(head)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, errors.New("vertex index 0")
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("vertex index %s out of range", head)
	}
	return i, nil
}
