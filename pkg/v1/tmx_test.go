package tmx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facadeMap = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16">
 <properties>
  <property name="biome" value="forest"/>
  <property name="level" type="int" value="4"/>
  <property name="weather" type="class" propertytype="Weather">
   <properties>
    <property name="rain" type="bool" value="true"/>
   </properties>
  </property>
 </properties>
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="8" columns="4">
  <image source="terrain.png" width="64" height="32"/>
  <tile id="1">
   <properties>
    <property name="solid" type="bool" value="true"/>
   </properties>
   <animation>
    <frame tileid="1" duration="120"/>
    <frame tileid="2" duration="90"/>
   </animation>
   <objectgroup>
    <object id="1" x="0" y="8" width="16" height="8"/>
   </objectgroup>
  </tile>
 </tileset>
 <layer id="1" name="ground" width="3" height="2">
  <data encoding="csv">
1,2,3,
4,0,6
  </data>
 </layer>
 <objectgroup id="2" name="objects">
  <object id="7" name="chest" class="Chest" x="8" y="8" width="16" height="16">
   <properties>
    <property name="gold" type="int" value="25"/>
   </properties>
  </object>
  <object id="8" name="marker" x="40" y="12">
   <point/>
  </object>
 </objectgroup>
</map>`

// writeMap writes TMX content into dir and returns the file path.
func writeMap(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPublicAPI(t *testing.T) {
	parser := NewParser()
	require.NotNil(t, parser)

	opts := DefaultParseOptions()
	assert.Equal(t, 16, opts.EllipseSegments)
	assert.False(t, opts.SkipInvalidObjects)
	assert.False(t, opts.StrictChunks)
}

func TestParseMapFacade(t *testing.T) {
	path := writeMap(t, t.TempDir(), "facade.tmx", facadeMap)

	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, m.Filename())
	assert.Equal(t, "1.10", m.Version())
	assert.Equal(t, "1.10.2", m.TiledVersion())
	assert.Equal(t, OrientationOrthogonal, m.Orientation())
	assert.Equal(t, "right-down", m.RenderOrder())
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, 16, m.TileWidth())
	assert.Equal(t, 16, m.TileHeight())
	assert.False(t, m.Infinite())

	biome, ok := m.Properties().GetString("biome")
	require.True(t, ok)
	assert.Equal(t, "forest", biome)
	level, ok := m.Properties().GetInt("level")
	require.True(t, ok)
	assert.Equal(t, 4, level)

	// Nested class properties come back as the public type.
	weather, ok := m.Properties().GetClass("weather")
	require.True(t, ok)
	rain, ok := weather.GetBool("rain")
	require.True(t, ok)
	assert.True(t, rain)
}

func TestTileLayerFacade(t *testing.T) {
	path := writeMap(t, t.TempDir(), "facade.tmx", facadeMap)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	require.Len(t, m.TileLayers(), 1)
	ground := m.TileLayer("ground")
	require.NotNil(t, ground)
	assert.Equal(t, "ground", ground.Name())
	assert.True(t, ground.Visible())
	assert.Equal(t, 1.0, ground.Opacity())

	w, h := ground.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)

	assert.Equal(t, GID(1), ground.TileAt(0, 0))
	assert.Equal(t, GID(6), ground.TileAt(2, 1))
	assert.Equal(t, GID(0), ground.TileAt(1, 1))
	assert.Equal(t, GID(0), ground.TileAt(-1, 0))

	var visited int
	ground.Tiles(func(x, y int, gid GID) {
		visited++
		assert.NotEqual(t, GID(0), gid)
	})
	assert.Equal(t, 5, visited, "empty cells are skipped")

	assert.Nil(t, m.TileLayer("missing"))
}

func TestObjectGroupFacade(t *testing.T) {
	path := writeMap(t, t.TempDir(), "facade.tmx", facadeMap)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	require.Len(t, m.ObjectGroups(), 1)
	group := m.ObjectGroup("objects")
	require.NotNil(t, group)
	assert.Equal(t, "topdown", group.DrawOrder())
	require.Len(t, group.Objects(), 2)

	chest, ok := group.ObjectByName("chest")
	require.True(t, ok)
	assert.Equal(t, 7, chest.ID())
	assert.Equal(t, "Chest", chest.Class())
	assert.Equal(t, "objects", chest.Layer())
	x, y := chest.Position()
	assert.Equal(t, 8.0, x)
	assert.Equal(t, 8.0, y)
	w, h := chest.Size()
	assert.Equal(t, 16.0, w)
	assert.Equal(t, 16.0, h)
	assert.True(t, chest.IsRectangle())
	assert.True(t, chest.Visible())

	gold, ok := chest.Properties().GetInt("gold")
	require.True(t, ok)
	assert.Equal(t, 25, gold)

	marker, ok := group.ObjectByName("marker")
	require.True(t, ok)
	assert.True(t, marker.IsPoint())
	assert.Nil(t, marker.Points())
	b := marker.Bounds()
	assert.Equal(t, 40.0, b.MinX)
	assert.Equal(t, 40.0, b.MaxX)

	_, ok = group.ObjectByName("ghost")
	assert.False(t, ok)

	assert.Equal(t, 2, m.ObjectCount())
}

func TestObjectsInBounds(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="64" height="64" tilewidth="16" tileheight="16">
 <objectgroup id="1" name="zones">
  <object id="1" name="near" x="0" y="0" width="32" height="32"/>
  <object id="2" name="far" x="500" y="500" width="32" height="32"/>
  <object id="3" name="spot" x="20" y="20">
   <point/>
  </object>
 </objectgroup>
</map>`
	path := writeMap(t, t.TempDir(), "zones.tmx", doc)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	hits := m.ObjectsInBounds(Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100})
	names := objectNames(hits)
	assert.ElementsMatch(t, []string{"near", "spot"}, names)

	hits = m.ObjectsInBounds(Bounds{MinX: 400, MinY: 400, MaxX: 600, MaxY: 600})
	assert.ElementsMatch(t, []string{"far"}, objectNames(hits))

	hits = m.ObjectsInBounds(Bounds{MinX: 2000, MinY: 2000, MaxX: 2100, MaxY: 2100})
	assert.Empty(t, hits)
}

func TestObjectsAt(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="64" height="64" tilewidth="16" tileheight="16">
 <objectgroup id="1" name="zones">
  <object id="1" name="box" x="0" y="0" width="32" height="32"/>
  <object id="2" name="spot" x="16" y="16">
   <point/>
  </object>
 </objectgroup>
</map>`
	path := writeMap(t, t.TempDir(), "at.tmx", doc)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	// Point objects never match exact containment, even at their position.
	assert.ElementsMatch(t, []string{"box"}, objectNames(m.ObjectsAt(16, 16)))
	assert.Empty(t, m.ObjectsAt(200, 200))
}

func TestMapBoundsIncludesObjects(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup id="1" name="zones">
  <object id="1" name="outside" x="100" y="-20" width="32" height="32"/>
 </objectgroup>
</map>`
	path := writeMap(t, t.TempDir(), "bounds.tmx", doc)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	// The grid is 64x64 pixels; the object pushes the bounds out.
	b := m.Bounds()
	assert.Equal(t, 0.0, b.MinX)
	assert.Equal(t, -20.0, b.MinY)
	assert.Equal(t, 132.0, b.MaxX)
	assert.Equal(t, 64.0, b.MaxY)
}

func TestTileExtrasFacade(t *testing.T) {
	path := writeMap(t, t.TempDir(), "facade.tmx", facadeMap)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	// Tileset tile id 1 sits behind GID 2.
	props := m.TileProperties(2)
	solid, ok := props.GetBool("solid")
	require.True(t, ok)
	assert.True(t, solid)

	frames := m.TileAnimation(2)
	require.Len(t, frames, 2)
	assert.Equal(t, GID(2), frames[0].GID)
	assert.Equal(t, 120, frames[0].DurationMS)
	assert.Equal(t, GID(3), frames[1].GID)
	assert.Equal(t, 90, frames[1].DurationMS)

	colliders := m.TileColliders(2)
	require.Len(t, colliders, 1)
	b := colliders[0].Bounds()
	assert.Equal(t, 8.0, b.MinY)
	assert.Equal(t, 16.0, b.MaxY)

	assert.Nil(t, m.TileProperties(1))
	assert.Nil(t, m.TileAnimation(1))
	assert.Nil(t, m.TileColliders(1))
}

func TestPixelToTileFacade(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="isometric" width="8" height="8" tilewidth="64" tileheight="32">
</map>`
	path := writeMap(t, t.TempDir(), "iso.tmx", doc)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	assert.Equal(t, OrientationIsometric, m.Orientation())
	tx, ty := m.PixelToTile(128, 64)
	assert.Equal(t, 2, tx)
	assert.Equal(t, 0, ty)
}

func TestParseWithOptionsFacade(t *testing.T) {
	const doc = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup id="1" name="zones">
  <object id="1" name="broken" x="0" y="0">
   <polygon points="0,0 nope"/>
  </object>
  <object id="2" name="fine" x="10" y="10" width="5" height="5"/>
 </objectgroup>
</map>`
	path := writeMap(t, t.TempDir(), "broken.tmx", doc)

	_, err := NewParser().Parse(path)
	require.Error(t, err)

	opts := DefaultParseOptions()
	opts.SkipInvalidObjects = true
	m, err := NewParser().ParseWithOptions(path, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, m.ObjectCount())
}

func TestParseMissingFile(t *testing.T) {
	_, err := NewParser().Parse(filepath.Join(t.TempDir(), "nope.tmx"))
	assert.Error(t, err)
}

func TestUsedGIDsFacade(t *testing.T) {
	path := writeMap(t, t.TempDir(), "facade.tmx", facadeMap)
	m, err := NewParser().Parse(path)
	require.NoError(t, err)

	gids := m.UsedGIDs()
	// Layer uses 1,2,3,4,6 plus GID 3 from the animation frame.
	assert.ElementsMatch(t, []GID{1, 2, 3, 4, 6}, gids)
}

func objectNames(objects []Object) []string {
	names := make([]string, len(objects))
	for i, obj := range objects {
		names[i] = obj.Name()
	}
	return names
}
