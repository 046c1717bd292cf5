package a

import "os"

const private = 0o600

func write(data []byte) {
	_ = os.WriteFile("a.txt", data, 0o600) // want `use fileutil.ReadWriteUserPermission instead of hardcoded 0o600 in WriteFile`
	_ = os.WriteFile("b.txt", data, 0644)  // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded 0644 in WriteFile`
	_ = os.MkdirAll("dir", 0o755)          // want `use fileutil.ReadWriteExecuteUserReadExecuteOthers instead of hardcoded 0o755 in MkdirAll`
	_ = os.WriteFile("c.txt", data, private)
	_ = os.WriteFile("d.txt", data, 0o640)
	_ = os.Chmod("e.txt", os.ModePerm)
}
