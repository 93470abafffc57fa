// Package heat builds the operators of the heat method for vector fields on
// an unstructured point cloud: the complex connection Laplacian, its real
// 2N×2N embedding and the lumped mass matrix.
//
// The construction is the usual point-cloud one:
//
//  1. k nearest neighbours (gonum spatial/kdtree), symmetrized;
//  2. a tangent frame per point from PCA of its neighbourhood;
//  3. consistent normal orientation by breadth-first propagation;
//  4. heat-kernel edge weights and per-point areas;
//  5. discrete Levi-Civita transport between neighbouring frames.
//
// Tangent vectors at point i are complex numbers in the basis (BasisX,
// BasisY) of Frame i. The connection Laplacian is Hermitian by construction:
// every off-diagonal pair is written as exact conjugates.
//
// Callers depend on the Operators interface; PointCloudSolver is the
// concrete implementation.
package heat
